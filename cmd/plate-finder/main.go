package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/plate-finder/internal/config"
	"github.com/ironsheep/plate-finder/internal/detection"
	"github.com/ironsheep/plate-finder/internal/imaging"
	"github.com/ironsheep/plate-finder/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const logLevelEnv = "PLATE_FINDER_LOG_LEVEL"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "plate-finder - locate the license plate in a photograph of a car")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  plate-finder [options] <input-image> [output.png]")
	fmt.Fprintln(w, "  plate-finder [options] serve")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The annotated image defaults to output_images/<name>_output.png.")
	fmt.Fprintln(w, "'serve' runs an MCP server over stdin/stdout instead.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --config <file>  Read settings from a TOML file")
	fmt.Fprintln(w, "  --crop <file>    Also write the plate region of the source image as PNG")
	fmt.Fprintln(w, "  --debug          Log every pipeline stage")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug|info|warn|error    Log level (default info)\n", logLevelEnv)
}

// run is main without the process exit, returning the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plate-finder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	var showVersion, debug bool
	fs.BoolVar(&showVersion, "version", false, "print version information")
	fs.BoolVar(&showVersion, "v", false, "print version information")
	fs.BoolVar(&debug, "debug", false, "log every pipeline stage")
	cfgPath := fs.String("config", "", "TOML settings file")
	cropPath := fs.String("crop", "", "write the plate region to this PNG")

	rest, err := parseInterspersed(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if showVersion {
		fmt.Fprintf(stdout, "plate-finder %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	}

	// Logs go to stderr; stdout carries results or the MCP protocol.
	logger := initLogger(debug, os.Getenv(logLevelEnv), stderr)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.WithError(err).Error("failed to load configuration")
		return 1
	}

	if len(rest) == 1 && rest[0] == "serve" {
		logger.WithFields(logrus.Fields{
			"version": Version,
			"commit":  GitCommit,
		}).Info("starting MCP server")

		srv, err := server.New(cfg, logger)
		if err != nil {
			logger.WithError(err).Error("failed to create server")
			return 1
		}
		if err := srv.Run(); err != nil {
			logger.WithError(err).Error("server error")
			return 1
		}
		return 0
	}

	if len(rest) < 1 || len(rest) > 2 {
		printUsage(stderr)
		return 1
	}

	input := rest[0]
	output := imaging.OutputPathFor(input, cfg.OutputDir)
	if len(rest) == 2 {
		output = rest[1]
	}

	if err := detectFile(cfg, logger, input, output, *cropPath, stdout); err != nil {
		logger.WithError(err).WithField("input", input).Error("plate detection failed")
		return 1
	}
	return 0
}

// parseInterspersed parses args with fs, allowing options after positional
// arguments. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// initLogger builds the stderr logger. debug wins over the environment
// level; an unparseable level falls back to info with a warning.
func initLogger(debug bool, envLevel string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)

	switch {
	case debug:
		logger.SetLevel(logrus.DebugLevel)
	case envLevel != "":
		level, err := logrus.ParseLevel(strings.TrimSpace(envLevel))
		if err != nil {
			logger.WithField("value", envLevel).Warnf("ignoring invalid %s", logLevelEnv)
			break
		}
		logger.SetLevel(level)
	}
	return logger
}

// detectFile runs the pipeline over input, writes the annotated greyscale
// image to output and, when cropPath is set, the plate region to cropPath.
func detectFile(cfg config.Config, logger *logrus.Logger, input, output, cropPath string, stdout io.Writer) error {
	cache := imaging.NewImageCache()
	img, ch, err := imaging.LoadChannels(cache, input)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"width":  ch.Width,
		"height": ch.Height,
	}).Info("image loaded")

	det, err := detection.NewDetector(cfg.Detection, logger)
	if err != nil {
		return err
	}
	res, err := det.Detect(ch)
	if err != nil {
		return err
	}

	rendered, err := imaging.RenderDetection(res.Greyscale, res.Bounds, cfg.Render)
	if err != nil {
		return err
	}
	if err := imaging.SaveRendering(output, rendered); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "plate: %s aspect %.2f (%d pixels, %d components)\n",
		res.Bounds, res.Aspect, res.PixelCount, res.Components)
	fmt.Fprintf(stdout, "annotated: %s\n", output)

	if cropPath != "" {
		region, err := imaging.ExtractPlate(img, res.Bounds)
		if err != nil {
			return err
		}
		if err := imaging.SaveRendering(cropPath, region); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "crop: %s\n", cropPath)
	}
	return nil
}
