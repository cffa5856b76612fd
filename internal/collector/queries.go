package collector

// DefaultQueries are issued in order until the result budget is spent.
var DefaultQueries = []string{
	`webcam`,
	`camera`,
	`title:"IP Camera"`,
	`title:"Network Camera"`,
	`title:"Live View"`,
	`product:"webcam"`,
	`port:8080 camera`,
	`port:8081 camera`,
}

const (
	// DefaultLimit bounds the number of raw matches inspected per run.
	DefaultLimit = 500
	// DefaultPerQueryMax caps a single query's request size.
	DefaultPerQueryMax = 100
)
