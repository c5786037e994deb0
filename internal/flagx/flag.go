// Package flagx lets several configuration layers share os.Args without
// tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Both "-c conf.json" and "-c=conf.json" (or "--config=conf.json") are
// recognised. A separate value is taken only when the next token does not
// start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// StringFlag extracts the value of a single string flag known under several
// aliases (e.g. "c" and "config"). The last occurrence wins; "" if absent.
func StringFlag(args []string, aliases ...string) string {
	allowed := make([]string, 0, len(aliases))
	for _, a := range aliases {
		allowed = append(allowed, "-"+a, "--"+a)
	}

	var value string
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, a := range aliases {
		fs.StringVar(&value, a, "", "")
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return value
}

// ConfigFile returns the JSON config path given with -c or -config.
func ConfigFile(args []string) string {
	return StringFlag(args, "c", "config")
}

// EnvFile returns the dotenv path given with -env.
func EnvFile(args []string) string {
	return StringFlag(args, "env")
}
