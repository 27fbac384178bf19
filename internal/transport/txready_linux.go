//go:build linux

package transport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// openInputLine requests BCM GPIO pin as an input through the GPIO
// character device. Raspberry Pi kernels name header lines "GPIO<n>".
func openInputLine(pin int) (InputLine, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("txready: invalid gpio pin %d", pin)
	}
	lineName := fmt.Sprintf("GPIO%d", pin)

	chips := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "gpiochip") {
			chips = append(chips, filepath.Join("/dev", e.Name()))
		}
	}

	for _, path := range chips {
		chip, err := gpiocdev.NewChip(path)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithConsumer("gnss-monitor-txready"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &gpiodInput{chip: chip, line: line}, nil
	}
	return nil, fmt.Errorf("txready: gpio line %q not found (or busy)", lineName)
}

type gpiodInput struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (g *gpiodInput) Value() (int, error) {
	return g.line.Value()
}

func (g *gpiodInput) Close() error {
	err := g.line.Close()
	_ = g.chip.Close()
	return err
}
