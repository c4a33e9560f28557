package logger

import (
	"strings"
	"sync"
	"testing"
)

// TestProgressBarRender verifies correct ASCII bar rendering
func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{"empty progress", 0, 18, 10, "[          ] 0/18 (0%)"},
		{"half progress", 5, 10, 10, "[=====     ] 5/10 (50%)"},
		{"full progress", 10, 10, 10, "[==========] 10/10 (100%)"},
		{"adhd part a", 6, 18, 18, "[=====             ] 6/18 (33%)"},
		{"overflow clamps", 12, 10, 4, "[====] 12/10 (100%)"},
		{"zero total", 0, 0, 5, "[     ] 0/0 (0%)"},
		{"default width", 1, 2, 0, "[=====     ] 1/2 (50%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)
			if got := pb.Render(); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestProgressBarPrefix verifies the prefix is prepended
func TestProgressBarPrefix(t *testing.T) {
	pb := NewProgressBar(10, 10, false)
	pb.SetPrefix("Question ")
	pb.Increment()

	if got := pb.Render(); got != "Question [=         ] 1/10 (10%)" {
		t.Errorf("Render() = %q", got)
	}
}

// TestProgressBarColor verifies colored output keeps the plain text
func TestProgressBarColor(t *testing.T) {
	pb := NewProgressBar(4, 4, true)
	pb.Update(4)

	got := pb.Render()
	if !strings.Contains(got, "[====] 4/4 (100%)") {
		t.Errorf("Render() = %q, want bar text inside color codes", got)
	}
	if !strings.HasPrefix(got, "\x1b[") {
		t.Errorf("Render() = %q, want ANSI color prefix", got)
	}
}

// TestProgressBarPercentage verifies clamping
func TestProgressBarPercentage(t *testing.T) {
	pb := NewProgressBar(10, 10, false)
	pb.Update(-3)
	if got := pb.Percentage(); got != 0 {
		t.Errorf("Percentage() = %d, want 0", got)
	}
	pb.Update(25)
	if got := pb.Percentage(); got != 100 {
		t.Errorf("Percentage() = %d, want 100", got)
	}
}

// TestProgressBarConcurrentIncrement verifies thread safety
func TestProgressBarConcurrentIncrement(t *testing.T) {
	pb := NewProgressBar(100, 10, false)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pb.Increment()
		}()
	}
	wg.Wait()

	if got := pb.Current(); got != 100 {
		t.Errorf("Current() = %d, want 100", got)
	}
}
