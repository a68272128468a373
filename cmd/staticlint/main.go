// The application is the project's static analysis tool: a single
// multichecker.Main invocation combining standard toolchain analyzers,
// third-party analyzers and a project-specific one.
//
// An optional config.json placed next to the binary narrows the staticcheck
// analyzer set; without it every SA analyzer runs.
package main

import (
	// Standard analyzers from the Go toolchain.
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"

	// Third-party analyzers.
	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"

	// Custom analyzer.
	"github.com/jurnalku/jurnalku/cmd/staticlint/noosexit"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"honnef.co/go/tools/staticcheck"

	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config is the name of the optional JSON file listing enabled staticcheck analyzers.
const Config = `config.json`

// ConfigData describes the structure of the configuration file. Staticcheck
// holds the names of enabled staticcheck analyzers, e.g. "SA1000", "SA4010".
type ConfigData struct {
	Staticcheck []string
}

func enabledStaticchecks() map[string]bool {
	appfile, err := os.Executable()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), Config))
	if err != nil {
		return nil
	}
	var cfg ConfigData
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil
	}

	checks := make(map[string]bool, len(cfg.Staticcheck))
	for _, name := range cfg.Staticcheck {
		checks[name] = true
	}

	return checks
}

func main() {
	myChecks := []*analysis.Analyzer{
		copylock.Analyzer,    // Checks for copying of locks by value.
		loopclosure.Analyzer, // Detects references to loop variables inside closures.
		lostcancel.Analyzer,  // Finds contexts that are not canceled.
		printf.Analyzer,      // Verifies format strings.
		structtag.Analyzer,   // Checks for incorrect struct field tags.
		unmarshal.Analyzer,   // Detects unused fields in JSON unmarshal targets.
		unreachable.Analyzer, // Detects unreachable code.

		ineffassign.Analyzer, // Detects ineffective assignments.
		nilerr.Analyzer,      // Flags returning nil after an error was created.

		noosexit.Analyzer, // Project-specific: forbids use of os.Exit in main.main.
	}

	checks := enabledStaticchecks()
	for _, v := range staticcheck.Analyzers {
		if checks == nil && strings.HasPrefix(v.Analyzer.Name, "SA") {
			myChecks = append(myChecks, v.Analyzer)
			continue
		}
		if checks[v.Analyzer.Name] {
			myChecks = append(myChecks, v.Analyzer)
		}
	}

	multichecker.Main(myChecks...)
}
