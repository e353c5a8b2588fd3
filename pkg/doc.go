// Package pkg provides the core libraries for critpath construction scheduling.
//
// # Overview
//
// critpath applies the Critical Path Method to a list of construction tasks:
// each task has a duration, a crew and the tasks it must wait for. The result
// is the earliest and latest start and finish day of every task, its slack,
// the critical path through the project and the crew on site per day.
//
// # Architecture
//
// The typical data flow through critpath:
//
//	Task file (JSON, YAML, TOML, HCL)
//	         ↓
//	    [io] package (decode, fill defaults)
//	         ↓
//	    [cpm] package (build, forward/backward pass, extract)
//	         ↓
//	    [render/nodelink] package (network diagram)
//	         ↓
//	    JSON schedule, SVG/PNG/PDF/DOT diagram
//
// # Quick Start
//
//	tasks, _ := io.ImportTasks("site.yaml")
//	res, _ := cpm.Analyze(tasks, cpm.Options{})
//	fmt.Println(res.Duration, res.CriticalPath)
//
// # Main Packages
//
// [cpm] - The scheduling engine. [cpm.Build] validates tasks and wires the
// synthetic START and END anchors, [cpm.NewGraph] indexes them, the forward
// and backward passes compute the schedule and [cpm.Analyze] runs it all.
//
// [io] - Task file decoding with defaults for missing duration and crew, and
// JSON export of results.
//
// [render/nodelink] - Network diagrams via Graphviz, with the critical path
// highlighted. [render] converts SVG to PDF and PNG with rsvg-convert.
//
// [pipeline] - load → analyze → render, shared by the CLI and the HTTP API,
// with rendered diagrams cached through [cache].
//
// [cache] - File, redis and null caches for rendered diagrams.
//
// [errors] - Coded errors (INVALID_INPUT, CYCLE_DETECTED, ...) that the
// CLI and the API map to exit codes and HTTP statuses.
//
// [observability] - Hooks the Prometheus metrics attach to.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/cpm/...      # Engine only
//	go test -run Example ./... # Examples only
//
// [cpm]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/cpm
// [io]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/critpath/pkg/observability
package pkg
