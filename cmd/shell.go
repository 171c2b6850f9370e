package cmd

import (
	"encoding/json"
	"expvar"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	_ "net/http/pprof" // HTTP performance profiling, added transparently to HTTP APIs
	"os"
	"os/signal"
	"path"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openbmc-project/celogin/metrics"
)

// StatsAndLogging constructs a metrics.Scope and a *zap.SugaredLogger,
// returning both. Crashes if setup fails. No secret material (passwords,
// derived hashes, signatures) is ever logged through the returned logger;
// callers pass only type, result code, and serial.
func StatsAndLogging() (metrics.Scope, *zap.SugaredLogger) {
	scope := metrics.NewPromScope(prometheus.DefaultRegisterer)

	zapLogger, err := zap.NewProduction()
	FailOnError(err, "Could not construct logger")
	logger := zapLogger.Sugar()

	return scope, logger
}

// FailOnError exits and prints an error message if we encountered a
// problem.
func FailOnError(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", msg, err)
		os.Exit(1)
	}
}

// DebugServer starts a server exposing Prometheus metrics and pprof
// profiling handlers. Typical usage is to start it in a goroutine,
// configured with an address from the agent's ServiceConfig.
func DebugServer(addr string, logger *zap.SugaredLogger) {
	if addr == "" {
		logger.Fatal("unable to boot debug server because no address was given for it. Set DebugAddr.")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatalf("unable to boot debug server on %#v: %s", addr, err)
	}
	http.Handle("/metrics", promhttp.Handler())
	http.Handle("/vars", expvar.Handler())
	err = http.Serve(ln, nil)
	if err != nil {
		logger.Fatalf("unable to boot debug server: %s", err)
	}
}

// ReadConfigFile takes a file path as an argument and unmarshals the
// content of the file into out.
func ReadConfigFile(filename string, out interface{}) error {
	configData, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(configData, out)
}

// Version is set at build time via -ldflags.
var (
	buildID   = "unknown"
	buildTime = "unknown"
)

// VersionString produces a friendly application version string.
func VersionString() string {
	name := path.Base(os.Args[0])
	return fmt.Sprintf("Versions: %s=(%s %s) Golang=(%s)", name, buildID, buildTime, runtime.Version())
}

var signalToName = map[os.Signal]string{
	syscall.SIGTERM: "SIGTERM",
	syscall.SIGINT:  "SIGINT",
	syscall.SIGHUP:  "SIGHUP",
}

// CatchSignals blocks until SIGTERM, SIGINT, or SIGHUP is received, runs
// callback, then exits.
func CatchSignals(logger *zap.SugaredLogger, callback func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, syscall.SIGINT)
	signal.Notify(sigChan, syscall.SIGHUP)

	sig := <-sigChan
	logger.Infof("Caught %s", signalToName[sig])

	if callback != nil {
		callback()
	}

	logger.Info("Exiting")
	os.Exit(0)
}
