//go:build js && wasm

// Command deadstore-wasm is the WebAssembly build of the analyzer.
// It exposes analysis functions to JavaScript via syscall/js.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/HugoDaniel/deadstore/pkg/api"
)

var version = "0.1.0"

func main() {
	js.Global().Set("__deadstore", js.ValueOf(map[string]interface{}{
		"analyze": js.FuncOf(analyzeJS),
		"format":  js.FuncOf(formatJS),
		"version": version,
	}))

	// Keep the Go runtime alive
	select {}
}

// analyzeJS is the JavaScript-callable analyze function.
// Signature: __deadstore.analyze(source: string, options?: object) => object
func analyzeJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("analyze requires at least 1 argument (source)")
	}

	var opts api.Options
	if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
		optStr := js.Global().Get("JSON").Call("stringify", args[1]).String()
		if err := json.Unmarshal([]byte(optStr), &opts); err != nil {
			return makeError("invalid options: " + err.Error())
		}
	}

	result, err := api.AnalyzeWithOptions(args[0].String(), opts)
	if err != nil {
		return makeError(err.Error())
	}
	return toJS(result)
}

// formatJS is the JavaScript-callable format function.
// Signature: __deadstore.format(source: string, minify?: boolean) => object
func formatJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("format requires at least 1 argument (source)")
	}
	minify := len(args) > 1 && args[1].Truthy()

	code, err := api.Format(args[0].String(), minify)
	if err != nil {
		return makeError(err.Error())
	}
	return map[string]interface{}{"code": code, "errors": []interface{}{}}
}

// toJS converts a result into plain JS values by way of its JSON form,
// which keeps field names identical to the Go API.
func toJS(result api.Result) interface{} {
	data, err := json.Marshal(result)
	if err != nil {
		return makeError(err.Error())
	}
	return js.Global().Get("JSON").Call("parse", string(data))
}

// makeError creates a result object with a single error.
func makeError(msg string) interface{} {
	return map[string]interface{}{
		"deadStores": []interface{}{},
		"errors": []interface{}{
			map[string]interface{}{
				"code":    "E0900",
				"message": msg,
				"line":    0,
				"column":  0,
			},
		},
	}
}
