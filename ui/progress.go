// Package ui draws progress on the terminal for long running commands.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Progress shows one bar per phase of work. A disabled Progress draws
// nothing.
type Progress struct {
	mu       sync.Mutex
	output   io.Writer
	bar      *progressbar.ProgressBar
	disabled bool
}

func NewProgress(output io.Writer) *Progress {
	return &Progress{output: output}
}

func (p *Progress) Disable() {
	p.disabled = true
}

// Start begins a phase of total steps, finishing the previous one.
func (p *Progress) Start(total int, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()

	output := p.output
	if p.disabled {
		output = io.Discard
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(true),
	)
}

func (p *Progress) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Add(1)
	}
}

// Current returns how many steps of the running phase are done.
func (p *Progress) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return 0
	}
	return p.bar.State().CurrentNum
}

func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
}

func (p *Progress) finishLocked() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
