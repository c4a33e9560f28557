// Package display renders screening sessions for the terminal.
//
// It covers three kinds of output:
//
// # Questions
//
// RenderQuestion prints the current question of a session view with its
// options, the selected answer and a progress bar:
//
//	display.RenderQuestion(os.Stdout, ctrl.View(), colorOutput)
//
// # Results
//
// RenderADHDResult and RenderAutismResult print a scored submission with
// the risk tier colored (green low, yellow moderate, red high), followed
// by recommendations and resource links. RenderBreakdown lists every item.
//
// # Warnings
//
//	display.Warning{
//	    Title:      "Progress could not be saved",
//	    Message:    err.Error(),
//	    Suggestion: "Answers are kept until this session ends",
//	}.Display(os.Stderr, colorOutput)
//
// Every function takes an io.Writer and an explicit color flag; use
// ColorEnabled to derive the flag from the configured color mode.
package display
