package manager

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// SSHConfigParser extracts importable profiles from OpenSSH client config
// text (~/.ssh/config grammar, single-value directives only).
//
// The parser is deliberately tolerant: it handles the common directive
// forms ("Key Value" and "Key=Value", case-insensitive keys, # comments)
// and silently drops anything else. It never fails; unreadable input
// yields no profiles. Match/Include directives and per-host option
// inheritance are out of scope.
type SSHConfigParser struct {
	homeDir string
}

// directiveRe matches one directive line after comment stripping and
// trimming: a word keyword, one or more whitespace/'=' separators, and a
// value running to end of line.
var directiveRe = regexp.MustCompile(`^(\w+)\s*[=\s]\s*(.+)$`)

// NewSSHConfigParser constructs a parser. homeDir is used to expand a
// leading "~" in IdentityFile values; pass the invoking user's home
// directory (injected explicitly so tests need no environment patching).
func NewSSHConfigParser(homeDir string) *SSHConfigParser {
	return &SSHConfigParser{homeDir: strings.TrimSpace(homeDir)}
}

// ParseFile reads path and parses its contents. A missing or unreadable
// file is treated as "no entries", never an error.
func (p *SSHConfigParser) ParseFile(path string) []Profile {
	path = expandPath(strings.TrimSpace(path))
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return p.Parse(string(data))
}

// Parse scans config text line by line and returns one Profile per
// concrete Host block, in file order.
//
// Rules:
//   - everything from '#' to end of line is a comment
//   - lines that do not match the directive grammar are ignored
//   - a "Host" directive starts a new block; the previous block (if any)
//     is finalized first
//   - within a block the last occurrence of a repeated directive wins
//   - blocks whose Host value contains a wildcard ('*' or '?') are
//     pattern rules, not destinations, and are dropped entirely
//   - directives before the first Host line have no enclosing block and
//     are dropped
func (p *SSHConfigParser) Parse(text string) []Profile {
	var profiles []Profile
	var block map[string]string

	flush := func() {
		if block == nil {
			return
		}
		if prof, ok := p.blockToProfile(block); ok {
			profiles = append(profiles, prof)
		}
		block = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := directiveRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])

		if key == "host" {
			flush()
			block = map[string]string{"host": value}
			continue
		}
		if block != nil {
			block[key] = value
		}
	}
	flush()

	return profiles
}

// blockToProfile converts an accumulated Host block into a Profile.
// Returns false for wildcard or empty host patterns.
func (p *SSHConfigParser) blockToProfile(block map[string]string) (Profile, bool) {
	host := block["host"]
	if host == "" || strings.ContainsAny(host, "*?") {
		return Profile{}, false
	}

	// HostName falls back to the alias itself.
	hostname := block["hostname"]
	if hostname == "" {
		hostname = host
	}

	// Non-numeric or out-of-range ports fall back to the default; an
	// unparseable directive is not worth rejecting the whole block over.
	port := DefaultSSHPort
	if v, ok := block["port"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 65535 {
			port = n
		}
	}

	identity := block["identityfile"]
	if identity != "" && strings.HasPrefix(identity, "~") && p.homeDir != "" {
		if identity == "~" {
			identity = p.homeDir
		} else if strings.HasPrefix(identity, "~/") {
			identity = filepath.Join(p.homeDir, identity[2:])
		}
	}

	return Profile{
		Name:         host,
		Hostname:     hostname,
		User:         block["user"],
		Port:         port,
		IdentityFile: identity,
	}, true
}
