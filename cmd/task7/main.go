package main

import (
	"flag"
	"log"
	"runtime"

	"compgraph/libapp"
	"compgraph/libview"
)

var Arguments struct {
	Blinn bool
	Speed float64
}

func main() {
	cfg := libapp.DefaultConfig("Task 7")
	cfg.RegisterFlags(flag.CommandLine)
	flag.BoolVar(&Arguments.Blinn, "blinn", false, "start with blinn-phong specular, toggle with B")
	flag.Float64Var(&Arguments.Speed, "speed", 5, "camera speed in units per second")
	flag.Parse()

	runtime.LockOSThread()
	check(libview.Run(libview.Options{
		Config:  cfg,
		Builtin: "task7",
		Blinn:   Arguments.Blinn,
		Speed:   float32(Arguments.Speed),
	}))
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
