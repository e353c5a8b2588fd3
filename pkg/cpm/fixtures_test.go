package cpm

import "testing"

func unitTask(code string, deps ...string) Task {
	return Task{Code: code, Duration: 1, Crew: Crew{Size: 1}, Dependencies: deps}
}

func singleTask() []Task {
	return []Task{unitTask("first")}
}

func chainTasks() []Task {
	return []Task{
		unitTask("first"),
		unitTask("intermediate", "first"),
		unitTask("last", "intermediate"),
	}
}

func diamondTasks() []Task {
	return []Task{
		unitTask("firstRoot"),
		unitTask("secondRoot"),
		unitTask("thirdRoot"),
		unitTask("intermediate", "firstRoot", "secondRoot", "thirdRoot"),
		unitTask("firstTerminal", "intermediate"),
		unitTask("secondTerminal", "intermediate"),
		unitTask("thirdTerminal", "intermediate"),
		unitTask("fourthTerminal", "intermediate"),
	}
}

func complexTasks() []Task {
	return []Task{
		unitTask("firstRoot"),
		unitTask("secondRoot"),
		unitTask("firstIntermediateTask", "secondRoot"),
		unitTask("secondIntermediateTask", "firstIntermediateTask"),
		unitTask("thirdIntermediateTask", "firstRoot"),
		unitTask("fourthIntermediateTask", "firstIntermediateTask", "thirdIntermediateTask"),
		unitTask("firstTerminal", "fourthIntermediateTask"),
		unitTask("secondTerminal", "secondRoot"),
		unitTask("thirdTerminal", "secondIntermediateTask"),
		unitTask("fourthTerminal", "thirdIntermediateTask", "firstIntermediateTask", "firstRoot"),
	}
}

// forkTasks has a long and a short branch between A and D.
func forkTasks() []Task {
	return []Task{
		{Code: "A", Duration: 5, Crew: Crew{Size: 2}},
		{Code: "B", Duration: 1, Crew: Crew{Size: 1}, Dependencies: []string{"A"}},
		{Code: "C", Duration: 10, Crew: Crew{Size: 3}, Dependencies: []string{"A"}},
		{Code: "D", Duration: 1, Crew: Crew{Size: 1}, Dependencies: []string{"B", "C"}},
	}
}

// resolved builds and resolves tasks, failing the test on any error.
func resolved(t testing.TB, tasks []Task) *Graph {
	t.Helper()
	plan, err := Build(tasks, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g, err := NewGraph(plan)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if err := g.ResolveForward(); err != nil {
		t.Fatalf("ResolveForward: %v", err)
	}
	if err := g.ResolveBackward(); err != nil {
		t.Fatalf("ResolveBackward: %v", err)
	}
	return g
}
