package config

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	PartsNumber struct {
		Default, Maximal int
	}
)

type (
	Headers struct {
		// Number is responsible for headers storage size of every header block: both part
		// headers and embedded request headers.
		// Default value is an initial capacity of the storage.
		// Maximal value is maximum number of headers allowed to be presented in a single block
		Number HeadersNumber
	}

	Line struct {
		// MaxLength limits the length of part header lines, request lines and request header
		// lines, line terminator excluded. Body lines aren't affected.
		MaxLength int
	}

	Body struct {
		// MaxSize describes the maximal size of a whole batch body, that can be processed.
		MaxSize int64
	}

	Parts struct {
		// Batch controls the number of top-level groups. Default value is the initial capacity
		// of the resulting slice.
		Batch PartsNumber
		// Changeset controls the number of requests inside a single changeset.
		Changeset PartsNumber
	}
)

// Config holds limitations and pre-allocations of the batch parser.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers Headers
	Line    Line
	Body    Body
	Parts   Parts
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		Headers: Headers{
			Number: HeadersNumber{
				Default: 8,
				Maximal: 100,
			},
		},
		Line: Line{
			// request lines carry OData query options, which are known to grow long. 64kb
			// is way more than any sane client produces.
			MaxLength: 64 * 1024,
		},
		Body: Body{
			MaxSize: 512 * 1024 * 1024, // 512 megabytes
		},
		Parts: Parts{
			Batch: PartsNumber{
				Default: 4,
				Maximal: 1000,
			},
			Changeset: PartsNumber{
				Default: 4,
				Maximal: 1000,
			},
		},
	}
}
