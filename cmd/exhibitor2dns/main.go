package main

import (
	"context"
	"flag"
	"io/ioutil"
	"os"

	"exhibitor2dns/pkg/dns/route53"
	"exhibitor2dns/pkg/exhibitor"
	"exhibitor2dns/pkg/reconcile"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Common CommonConfig `yaml:"common"`
}

type CommonConfig struct {
	Zone         string `yaml:"zone"`
	Record       string `yaml:"rr"`
	ExhibitorURL string `yaml:"exhibitor_url"`
	TTL          int64  `yaml:"ttl"`
}

type options struct {
	zone         string
	record       string
	exhibitorURL string
	ttl          int64
	verbosity    int
	configFile   string
}

func parseFlags() *options {
	opts := options{}
	flag.StringVar(&opts.zone, "zone", "", "DNS zone name (e.g. prod.example.com)")
	flag.StringVar(&opts.record, "rr", "", "Name of A record to manage. Concatenated with the value of --zone unless it ends in a \".\"")
	flag.StringVar(&opts.exhibitorURL, "exhibitor_url", "", "Base URL to exhibitor http endpoint (e.g. http://exhibitor.prod.example.com/)")
	flag.Int64Var(&opts.ttl, "ttl", 300, "Default record TTL")
	flag.IntVar(&opts.verbosity, "verbosity", 20, "Log level")
	flag.StringVar(&opts.configFile, "config", "", "Optional yml config file supplying flag defaults")
	flag.Parse()

	if opts.configFile != "" {
		fileConfig, err := parseConfig(opts.configFile)
		if err != nil {
			log.Fatalf("failed to process config: %s", err)
		}
		applyConfig(&opts, fileConfig, setFlags())
	}
	return &opts
}

func parseConfig(path string) (*Config, error) {
	fileConfig := Config{}
	ymlConfig, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(ymlConfig, &fileConfig)
	if err != nil {
		return nil, err
	}
	return &fileConfig, nil
}

func setFlags() map[string]bool {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyConfig fills in values from the config file for any flag not given
// explicitly on the command line.
func applyConfig(opts *options, fileConfig *Config, set map[string]bool) {
	common := fileConfig.Common
	if !set["zone"] && common.Zone != "" {
		opts.zone = common.Zone
	}
	if !set["rr"] && common.Record != "" {
		opts.record = common.Record
	}
	if !set["exhibitor_url"] && common.ExhibitorURL != "" {
		opts.exhibitorURL = common.ExhibitorURL
	}
	if !set["ttl"] && common.TTL != 0 {
		opts.ttl = common.TTL
	}
}

// logLevel maps the numeric verbosity threshold onto logrus levels. A value
// between two standard levels behaves like the one above it: 15 suppresses
// debug output just as 20 does.
func logLevel(verbosity int) log.Level {
	switch {
	case verbosity <= 10:
		return log.DebugLevel
	case verbosity <= 20:
		return log.InfoLevel
	case verbosity <= 30:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

func init() {
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func main() {
	opts := parseFlags()
	log.SetLevel(logLevel(opts.verbosity))

	if opts.zone == "" || opts.record == "" || opts.exhibitorURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	api, err := route53.New(context.Background())
	if err != nil {
		log.Fatalf("failed to create route53 client: %s", err)
	}
	ensemble := exhibitor.NewClient(opts.exhibitorURL)

	if err := reconcile.Run(api, ensemble, opts.zone, opts.record, opts.ttl); err != nil {
		log.Fatalf("sync failed: %s", err)
	}
}
