package mime

// Config bounds and tunes how a message is parsed. The zero value is
// usable: a zero limit means "unbounded" except where noted, and
// RecoverMalformedBoundary is off. DefaultConfig sets bounded limits
// and turns recovery on.
//
// Grounded on the teacher's AppConfig/ServerConfig pattern of a plain
// struct with JSON tags consumed by cmd/guerrillad - here exposed as a
// library-level type so cmd/mimeparser can build one from flags or from
// a config file the same way.
type Config struct {
	// MaxParts caps the number of Part nodes a single parse may create,
	// guarding against maliciously deep or wide multipart nesting. Zero
	// means unbounded.
	MaxParts int `json:"max_parts"`

	// MaxHeaderBytes caps the size of any one part's header block. Zero
	// means unbounded.
	MaxHeaderBytes int `json:"max_header_bytes"`

	// MaxMalformedHeaderLines is how many header lines without a colon a
	// single part's header block tolerates before aborting the parse
	// with a MalformedHeader error, per spec.md §7. Zero falls back to
	// DefaultMaxMalformedHeaderLines.
	MaxMalformedHeaderLines int `json:"max_malformed_header_lines"`

	// DefaultCharset is assumed for text/* parts that declare no charset
	// parameter. Empty falls back to "us-ascii", per RFC 2045 §5.2.
	DefaultCharset string `json:"default_charset"`

	// RecoverMalformedBoundary, when true (as in DefaultConfig), keeps
	// parsing the rest of the message after a multipart part's declared
	// boundary is never found, treating that part as childless. When
	// false, reading that part's children fails with a MalformedBoundary
	// error instead.
	RecoverMalformedBoundary bool `json:"recover_malformed_boundary"`
}

// DefaultMaxMalformedHeaderLines is the tolerance threshold used when
// Config.MaxMalformedHeaderLines is zero, matching the teacher's
// headerErrorThreshold.
const DefaultMaxMalformedHeaderLines = 4

func (c Config) maxMalformedHeaderLines() int {
	if c.MaxMalformedHeaderLines > 0 {
		return c.MaxMalformedHeaderLines
	}
	return DefaultMaxMalformedHeaderLines
}

func (c Config) defaultCharset() string {
	if c.DefaultCharset != "" {
		return c.DefaultCharset
	}
	return "us-ascii"
}

// DefaultConfig returns a Config with recovery enabled and generous but
// non-zero limits, suitable for parsing mail from untrusted senders.
func DefaultConfig() Config {
	return Config{
		MaxParts:                 1000,
		MaxHeaderBytes:           1 << 20,
		MaxMalformedHeaderLines:  DefaultMaxMalformedHeaderLines,
		DefaultCharset:           "us-ascii",
		RecoverMalformedBoundary: true,
	}
}
