package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	pk "github.com/Tnze/go-mc/net/packet"

	"experience-bottler/internal/bottling"
	"experience-bottler/internal/item"
	"experience-bottler/internal/network/packet"
	"experience-bottler/internal/utils/experience"
)

var errQuit = errors.New("quit")

// console turns text commands into session edits and serverbound packets.
type console struct {
	session *bottling.Session
	out     io.Writer
	send    func(p pk.Packet) error
	sleep   func(d time.Duration)

	presets []item.Stack
	useTime time.Duration
}

func (c *console) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	if isDigits(cmd) {
		for _, r := range cmd {
			if !c.session.TypeDigit(r) {
				return fmt.Errorf("rejected %q", r)
			}
		}
		return nil
	}

	switch cmd {
	case "focus":
		id, err := parseField(args, false)
		if err != nil {
			return err
		}
		c.session.Focus(id)
	case "blur":
		c.session.BlurAll()
	case "back":
		if !c.session.Backspace() {
			return errors.New("no field is focused")
		}
	case "del":
		if !c.session.Delete() {
			return errors.New("no field is focused")
		}
	case "unit":
		id, err := parseField(args, true)
		if err != nil {
			return err
		}
		c.session.ToggleUnit(id)
	case "source":
		n, err := parseNumber(args)
		if err != nil {
			return err
		}
		c.session.SourceChanged(n)
	case "show":
		c.show()
	case "insert":
		n, err := parseNumber(args)
		if err != nil {
			return err
		}
		return c.send(packet.NewInsertBottles(experience.ClampInt32(n)))
	case "take":
		return c.send(packet.NewTakeResult())
	case "drink":
		return c.drink(args)
	case "presets":
		for i, stack := range c.presets {
			fmt.Fprintf(c.out, "%d: %s\n", i, item.Tooltip(stack))
		}
	case "quit", "close":
		if err := c.send(packet.NewCloseBottler()); err != nil {
			return err
		}
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}

// drink consumes a preset bottle by index, taking the bottle's use time.
func (c *console) drink(args []string) error {
	n, err := parseNumber(args)
	if err != nil {
		return err
	}
	if n < 0 || n >= int64(len(c.presets)) {
		return fmt.Errorf("no preset %d", n)
	}

	c.sleep(c.useTime)
	return c.send(packet.NewDrinkBottle(c.presets[n].Tag))
}

func (c *console) show() {
	s := c.session
	fmt.Fprintf(c.out, "source: %s  to bottle: %s  after bottling: %s\n",
		renderField(s.Source()), renderField(s.ToBottle()), renderField(s.AfterBottling()))
}

func renderField(f bottling.Field) string {
	text := f.Text()
	if f.Unit() == bottling.UnitLevel {
		text += " L"
	}
	if f.Style() == bottling.StyleError {
		text = "!" + text
	}
	if f.Focused() {
		text = "[" + text + "]"
	}
	return text
}

func parseField(args []string, withSource bool) (bottling.FieldID, error) {
	if len(args) != 1 {
		return bottling.FieldNone, errors.New("expected one field")
	}

	switch args[0] {
	case "to":
		return bottling.FieldToBottle, nil
	case "after":
		return bottling.FieldAfterBottling, nil
	case "source":
		if withSource {
			return bottling.FieldSource, nil
		}
	}
	return bottling.FieldNone, fmt.Errorf("unknown field %q", args[0])
}

func parseNumber(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one number")
	}
	return strconv.ParseInt(args[0], 10, 64)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
