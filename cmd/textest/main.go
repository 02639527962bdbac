package main

import (
	"flag"
	"log"
	"runtime"

	"compgraph/libapp"
	"compgraph/libview"
)

var Arguments struct {
	TextureSize int
}

// The sword with procedural textures and normal maps, particles spiral around the grip
func main() {
	cfg := libapp.DefaultConfig("Texture Test")
	cfg.RegisterFlags(flag.CommandLine)
	flag.IntVar(&Arguments.TextureSize, "texture-size", libview.TextureSize, "edge length of the generated textures")
	flag.Parse()

	if Arguments.TextureSize < 32 {
		log.Panicf("texture size must be at least 32, is %d", Arguments.TextureSize)
	}

	runtime.LockOSThread()
	check(libview.Run(libview.Options{
		Config:      cfg,
		Builtin:     "textest",
		Textured:    true,
		TextureSize: Arguments.TextureSize,
		Speed:       5,
	}))
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
