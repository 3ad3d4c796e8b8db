// Package parser extracts structured content from CLI responses.
//
// Models asked for JSON often wrap it in a markdown fence or surround it with
// prose. ExtractObject tolerates both: fences are stripped, then the text
// between the first '{' and the last '}' is decoded.
//
//	obj, err := parser.ExtractObject("Sure!\n```json\n{\"a\":1}\n```")
//	// obj["a"] == float64(1)
//
// Code blocks can also be pulled out directly:
//
//	code := parser.ExtractCode(response, "go")
package parser
