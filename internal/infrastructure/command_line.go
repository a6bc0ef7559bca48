package infrastructure

import "strings"

// shellMetaChars are the characters that make an argument need quoting
const shellMetaChars = " \t\n\r'\"$`\\!*?[](){}|;<>&~#%"

// quoteArg renders one argument so it can be pasted into a POSIX shell.
// exec.Command never goes through a shell, this is for display only.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, shellMetaChars) {
		return arg
	}
	// Close the quote, emit a double-quoted ', reopen
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}

// ShellEscapeCommand renders a command line for logs and download history
func ShellEscapeCommand(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}
