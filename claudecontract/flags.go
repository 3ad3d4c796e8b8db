package claudecontract

// CLI flag names as used by the claude binary.
const (
	FlagPrint      = "--print"   // Run in non-interactive mode
	FlagPrintShort = "-p"        // Short form of --print
	FlagModel      = "--model"   // Model to use
	FlagVersion    = "--version" // Print the CLI version
	FlagHelp       = "--help"    // Print usage
)

// HasPrintFlag reports whether args already request non-interactive mode.
func HasPrintFlag(args []string) bool {
	for _, a := range args {
		if a == FlagPrint || a == FlagPrintShort {
			return true
		}
	}
	return false
}

// HasModelFlag reports whether args carry a model flag with a value, either
// as "--model <value>" or "--model=<value>". A trailing "--model" with
// nothing after it does not count.
func HasModelFlag(args []string) bool {
	for i, a := range args {
		if a == FlagModel && i+1 < len(args) {
			return true
		}
		if len(a) > len(FlagModel)+1 && a[:len(FlagModel)+1] == FlagModel+"=" {
			return true
		}
	}
	return false
}
