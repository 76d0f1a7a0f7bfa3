// Package main provides a C-callable static library for dead-store analysis.
//
// This is built with -buildmode=c-archive to produce libdeadstore.a
// that can be linked into Zig/C/Rust programs.
//
// Build:
//
//	CGO_ENABLED=1 go build -buildmode=c-archive -o build/libdeadstore.a ./cmd/deadstore-lib
//
// Exported functions:
//
//	deadstore_analyze(source, source_len, options_json, options_len, out_json, out_json_len) -> error_code
//	deadstore_free(ptr) -> void
//	deadstore_version() -> *char
package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/HugoDaniel/deadstore/pkg/api"
)

const version = "0.1.0"

// Error codes
const (
	DEADSTORE_OK              = 0
	DEADSTORE_ERR_JSON_ENCODE = 1
	DEADSTORE_ERR_NULL_INPUT  = 2
	DEADSTORE_ERR_JSON_DECODE = 3
	DEADSTORE_ERR_OPTIONS     = 4
)

// deadstore_analyze analyzes source code and returns the result as JSON.
//
// Parameters:
//   - source: pointer to program source (UTF-8)
//   - source_len: length of source in bytes
//   - options_json: pointer to JSON options (can be NULL for defaults),
//     e.g. {"unsorted": true, "rules": {"W0001": "error"}}
//   - options_len: length of options JSON
//   - out_json: pointer to receive the JSON result (caller must free with deadstore_free)
//   - out_json_len: pointer to receive JSON length
//
// Returns:
//   - 0 on success, including programs with syntax errors (see "errors" in the result)
//   - non-zero error code on failure
//
//export deadstore_analyze
func deadstore_analyze(
	source *C.char, source_len C.int,
	options_json *C.char, options_len C.int,
	out_json **C.char, out_json_len *C.int,
) C.int {
	if source == nil || out_json == nil || out_json_len == nil {
		return DEADSTORE_ERR_NULL_INPUT
	}

	var opts api.Options
	if options_json != nil && options_len > 0 {
		if err := json.Unmarshal([]byte(C.GoStringN(options_json, options_len)), &opts); err != nil {
			return DEADSTORE_ERR_JSON_DECODE
		}
	}

	result, err := api.AnalyzeWithOptions(C.GoStringN(source, source_len), opts)
	if err != nil {
		return DEADSTORE_ERR_OPTIONS
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return DEADSTORE_ERR_JSON_ENCODE
	}
	*out_json = C.CString(string(jsonBytes))
	*out_json_len = C.int(len(jsonBytes))

	return DEADSTORE_OK
}

// deadstore_free frees memory allocated by deadstore functions.
//
//export deadstore_free
func deadstore_free(ptr *C.char) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

// deadstore_version returns the library version string.
// The returned pointer is static and must not be freed.
//
//export deadstore_version
func deadstore_version() *C.char {
	return versionCStr
}

var versionCStr = C.CString(version)

func main() {}
