package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/bl4ck0w1/subforce/pkg/models"
)

// Printer writes the human-readable result stream. It is safe for
// concurrent use.
type Printer struct {
	out           io.Writer
	mu            sync.Mutex
	good          *color.Color
	info          *color.Color
	warn          *color.Color
	progressShown bool
}

func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:  out,
		good: color.New(color.FgGreen, color.Bold),
		info: color.New(color.FgCyan),
		warn: color.New(color.FgYellow, color.Bold),
	}
	if noColor {
		p.good.DisableColor()
		p.info.DisableColor()
		p.warn.DisableColor()
	}
	return p
}

func (p *Printer) Banner(cfg *models.RunConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(p.info, "[*]", fmt.Sprintf("Target: %s", cfg.Domain))
	p.line(p.info, "[*]", fmt.Sprintf("Threads: %d", cfg.Threads))
	p.line(p.info, "[*]", fmt.Sprintf("Timeout: %s", cfg.Timeout))
	p.line(p.info, "[*]", "Press Ctrl+C to stop enumeration")
	fmt.Fprintln(p.out)
}

func (p *Printer) Loaded(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(p.info, "[*]", fmt.Sprintf("Loaded %d subdomains from wordlist", n))
}

func (p *Printer) Found(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.breakProgress()
	p.line(p.good, "[+]", "Found: "+name)
}

// Progress overwrites the current status line in place.
func (p *Printer) Progress(tested uint64, found int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r%s %s", p.info.Sprint("[*]"), statusText(tested, found, elapsed))
	p.progressShown = true
}

func (p *Printer) EmptyWordlist() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(p.warn, "[!]", "No valid subdomains found in wordlist")
}

func (p *Printer) Interrupted(elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.breakProgress()
	fmt.Fprintln(p.out)
	p.line(p.warn, "[!]", "Received interrupt signal, stopping workers...")
	p.line(p.warn, "[*]", fmt.Sprintf("Enumeration interrupted after %.1f seconds", elapsed.Seconds()))
}

// Final prints the closing status line and the results block.
func (p *Printer) Final(r *models.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\r%s %s\n", p.info.Sprint("[*]"), statusText(r.Tested, len(r.Found), r.Elapsed))
	p.progressShown = false

	if !r.Interrupted() {
		fmt.Fprintln(p.out)
		p.line(p.good, "[+]", "Enumeration complete")
	}

	fmt.Fprintln(p.out)
	p.line(p.good, "[+]", "Results:")
	fmt.Fprintf(p.out, "Total tested: %d\n", r.Tested)
	fmt.Fprintf(p.out, "Subdomains found: %d\n", len(r.Found))

	if len(r.Found) > 0 {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Found subdomains:")
		for _, name := range r.Found {
			fmt.Fprintln(p.out, name)
		}
	}

	fmt.Fprintln(p.out)
	p.line(p.good, "[+]", "Done")
}

func (p *Printer) line(c *color.Color, tag, msg string) {
	fmt.Fprintf(p.out, "%s %s\n", c.Sprint(tag), msg)
}

func (p *Printer) breakProgress() {
	if p.progressShown {
		fmt.Fprintln(p.out)
		p.progressShown = false
	}
}

func statusText(tested uint64, found int, elapsed time.Duration) string {
	return fmt.Sprintf("Tested: %d | Found: %d | Elapsed: %.1fs", tested, found, elapsed.Seconds())
}
