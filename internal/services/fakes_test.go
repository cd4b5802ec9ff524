package services

import (
	"context"
	"io"
	"sync"
)

type fakePDFParser struct {
	text string
	err  error
}

func (f *fakePDFParser) ExtractText(string) (string, error) {
	return f.text, f.err
}

func (f *fakePDFParser) ExtractTextFromReader(io.ReaderAt, int64) (string, error) {
	return f.text, f.err
}

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	systems []string
	prompts []string
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, systemPrompt, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.systems = append(f.systems, systemPrompt)
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
