// Package translate formats user facing messages for the current locale.
//
// Numbers passed to a Printer are formatted by the rules of its language,
// so values that must stay machine readable, such as sizes in error text,
// are formatted by the caller and passed as strings.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer formats messages for one language.
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

func New(tag language.Tag) *Printer {
	return &Printer{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// Language is the tag the printer formats for.
func (p *Printer) Language() language.Tag {
	return p.tag
}

// Sprintf formats an en-US Sprintf() format for the printer's language.
func (p *Printer) Sprintf(key message.Reference, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

var (
	mutex   sync.RWMutex
	current *Printer
)

// Detect returns the preferred language of the user, en-US when the
// system locale can not be determined.
func Detect() (language.Tag, error) {
	locales, err := locale.GetLocales()
	if err != nil || len(locales) == 0 {
		return language.AmericanEnglish, err
	}

	tag, err := language.Parse(locales[0])
	if err != nil {
		return language.AmericanEnglish, err
	}
	return tag, nil
}

// Default returns the process wide printer, created for the detected
// language on first use.
func Default() *Printer {
	mutex.RLock()
	p := current
	mutex.RUnlock()
	if p != nil {
		return p
	}

	mutex.Lock()
	defer mutex.Unlock()
	if current == nil {
		tag, _ := Detect()
		current = New(tag)
	}
	return current
}

// SetDefault replaces the process wide printer and returns the previous one.
func SetDefault(p *Printer) *Printer {
	prev := Default()

	mutex.Lock()
	current = p
	mutex.Unlock()
	return prev
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return Default().Sprintf(key, args...)
}
