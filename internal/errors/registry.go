package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E109)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "pmweb looks for pmweb.json in the working directory or the path given with --config.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file could not be read or is not valid JSON.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A config value is out of range or not one of the accepted values.",
	},

	// ============================================
	// Project Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryProject,
		Message:  "Project root not found",
		Detail:   "No .project/config.yaml was found in the start directory or any of its parents.",
	},
	"E111": {
		Category: CategoryProject,
		Message:  "Invalid project config",
		Detail:   "The .project/config.yaml file could not be parsed or failed validation.",
	},

	// ============================================
	// Storage Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryStorage,
		Message:  "Preference read failed",
		Detail:   "The preference store returned an error while reading a key.",
	},
	"E121": {
		Category: CategoryStorage,
		Message:  "Preference write failed",
		Detail:   "The preference store returned an error while writing a key.",
	},
	"E122": {
		Category: CategoryStorage,
		Message:  "Preference store unavailable",
		Detail:   "The configured storage backend could not be initialized.",
	},

	// ============================================
	// Network Errors (E130-E149)
	// ============================================

	"E130": {
		Category: CategoryNetwork,
		Message:  "Config request failed",
		Detail:   "The configuration endpoint could not be reached or returned a non-2xx status.",
	},
	"E131": {
		Category: CategoryNetwork,
		Message:  "Config response invalid",
		Detail:   "The configuration endpoint returned a body that is not a valid AppConfig document.",
	},
	"E140": {
		Category: CategoryNetwork,
		Message:  "Transport request failed",
		Detail:   "A partial-update request could not be sent or its response could not be read.",
	},
	"E141": {
		Category: CategoryNetwork,
		Message:  "Trigger stream failed",
		Detail:   "The websocket carrying server-pushed triggers could not be opened or was closed with an error.",
	},

	// ============================================
	// CLI Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "The command was called with an argument it does not accept.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
