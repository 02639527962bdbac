package main

import (
	"flag"
	"log"
	"runtime"

	"compgraph/libapp"
	"compgraph/libview"
)

var Arguments = struct {
	Seed int64
}{
	Seed: 1,
}

// A ring of every figure around the camera, lit by an orbiting lamp
func main() {
	cfg := libapp.DefaultConfig("Task 6")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Int64Var(&Arguments.Seed, "seed", Arguments.Seed, "seed of the random figure colors")
	flag.Parse()

	runtime.LockOSThread()
	check(libview.Run(libview.Options{
		Config:  cfg,
		Builtin: "task6",
		Seed:    Arguments.Seed,
	}))
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
