package seeder

import "github.com/fatih/color"

// Printer receives the seeder's console progress.
type Printer interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type colorPrinter struct{}

// ColorPrinter writes progress to stdout in color.
func ColorPrinter() Printer { return colorPrinter{} }

func (colorPrinter) Info(format string, args ...interface{})    { color.Cyan(format, args...) }
func (colorPrinter) Success(format string, args ...interface{}) { color.Green(format, args...) }
func (colorPrinter) Warn(format string, args ...interface{})    { color.Yellow(format, args...) }
func (colorPrinter) Error(format string, args ...interface{})   { color.Red(format, args...) }

type discardPrinter struct{}

// Discard drops all progress output.
var Discard Printer = discardPrinter{}

func (discardPrinter) Info(string, ...interface{})    {}
func (discardPrinter) Success(string, ...interface{}) {}
func (discardPrinter) Warn(string, ...interface{})    {}
func (discardPrinter) Error(string, ...interface{})   {}
