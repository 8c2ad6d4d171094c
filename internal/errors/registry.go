package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Directive Errors (E200-E209)
	// ============================================

	"E200": {
		Category:   CategoryCompile,
		Message:    "Directive registered twice in the same scope",
		Detail:     "A scope may hold one definition per name. Names are normalized, so customShow and custom-show collide.",
		Suggestion: "Rename one directive, or register it in a child scope to shadow the parent.",
	},
	"E201": {
		Category:   CategoryCompile,
		Message:    "Directive could not be resolved",
		Detail:     "The template uses a directive that is not registered in the component scope or any parent scope.",
		Suggestion: "Register the directive globally or in the component's Directives map.",
	},
	"E202": {
		Category:   CategoryCompile,
		Message:    "Directive has no server hook",
		Detail:     "The directive changes the element on the client but contributes nothing to server output, so the two render paths would disagree.",
		Suggestion: "Add an SSR hook, declare the directive ClientOnly, or compile with --policy=lenient.",
	},
	"E203": {
		Category:   CategoryRender,
		Message:    "Directive hook failed",
		Detail:     "A directive hook returned an error or panicked. On the server the render was aborted and produced no output.",
	},
	"E204": {
		Category:   CategoryCompile,
		Message:    "Template syntax error",
		Detail:     "The template could not be parsed. Check for unclosed or mismatched tags.",
	},

	// ============================================
	// Configuration Errors (E210-E219)
	// ============================================

	"E210": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "No vdirective.yaml was found in the current directory or any parent directory.",
		Suggestion: "Create a vdirective.yaml or pass --config.",
	},
	"E211": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file is not valid YAML.",
	},
	"E212": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration value",
		Detail:     "A configuration value is out of range or not one of the accepted values.",
		Suggestion: "policy must be strict or lenient; cache_size must not be negative.",
	},

	// ============================================
	// CLI Errors (E220-E229)
	// ============================================

	"E220": {
		Category:   CategoryCLI,
		Message:    "Invalid template data",
		Detail:     "The --data flag must hold a JSON object.",
		Suggestion: `Example: --data '{"visible": false}'`,
	},
	"E221": {
		Category: CategoryCLI,
		Message:  "Render paths disagree",
		Detail:   "The client and server output for the template are not equivalent.",
	},
}

// GetTemplate returns the template registered for code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns every registered code in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
