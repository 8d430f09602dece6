package main

import (
	"io"
	"os"
	"time"

	leadmagnet "github.com/hatlem/getanswers-sub001"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Renderer replaces the browser pool when set. The generator closes it.
	Renderer leadmagnet.Renderer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
