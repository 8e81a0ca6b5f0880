package config

import "github.com/namsral/flag"

// Config is the solver's configuration surface.
type Config struct {
	MaxIterations    int
	HeuristicWeight  float64
	ProgressInterval int
	SearchLogPath    string
	ResultsDBPath    string
	Debug            bool

	// Args holds the non-flag arguments left after Load.
	Args []string
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("klondike", flag.ContinueOnError)
	fs.IntVar(&c.MaxIterations, "max-iterations", 100000, "search budget: maximum number of states to expand")
	fs.Float64Var(&c.HeuristicWeight, "heuristic-weight", 1.0, "heuristic weight; 0 degenerates to uniform-cost search")
	fs.IntVar(&c.ProgressInterval, "progress-interval", 100, "expansions between progress reports")
	fs.StringVar(&c.SearchLogPath, "search-log", "", "path for the YAML search log stream")
	fs.StringVar(&c.ResultsDBPath, "results-db", "", "path of the sqlite results database for batch runs")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
	err := fs.Parse(args)
	c.Args = fs.Args()
	return err
}
