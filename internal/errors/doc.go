// Package errors turns directive, template and config failures into
// structured, actionable messages for the command line.
//
// Every failure the library reports carries a code through a Code()
// method. Classify maps such an error onto its registered template so the
// CLI can print the code, a plain-language explanation and a hint:
//
//	if err != nil {
//	    errors.PrintError(errors.Classify(err))
//	}
//	// ERROR E202: Directive has no server hook
//	//
//	//   card.vue:3
//	//
//	//   The directive changes the element on the client but contributes
//	//   nothing to server output.
//	//
//	//   Hint: Add an SSR hook, declare the directive ClientOnly, or compile
//	//   with --policy=lenient.
//
// # Error Codes
//
//   - E200-E209: directive registry, compile and render failures
//   - E210-E219: configuration
//   - E220-E229: command line usage
package errors
