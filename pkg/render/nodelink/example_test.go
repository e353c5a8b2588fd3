package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/critpath/pkg/cpm"
	"github.com/matzehuels/critpath/pkg/render/nodelink"
)

func ExampleToDOT() {
	_, g, err := cpm.AnalyzeGraph([]cpm.Task{
		{Code: "excavate", Duration: 2},
		{Code: "slab", Duration: 1, Dependencies: []string{"excavate"}},
		{Code: "walls", Duration: 3, Dependencies: []string{"slab"}},
		{Code: "wiring", Duration: 1, Dependencies: []string{"slab"}},
	}, cpm.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}

	// Print only the edges; critical ones carry the highlight.
	for _, line := range strings.Split(nodelink.ToDOT(g, nodelink.Options{}), "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "START" -> "excavate" [color="#c0392b", penwidth=2];
	// "excavate" -> "slab" [color="#c0392b", penwidth=2];
	// "slab" -> "walls" [color="#c0392b", penwidth=2];
	// "slab" -> "wiring";
	// "walls" -> "END" [color="#c0392b", penwidth=2];
	// "wiring" -> "END";
}
