package item

import (
	"fmt"

	"github.com/Tnze/go-mc/nbt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	GlassBottleID        = "minecraft:glass_bottle"
	BottledExperienceID  = "experiencebottler:bottled_experience"
	ExperienceTag        = "experiencebottler:experience"
	DefaultMaxUseTime    = 32
	tooltipFormat        = "Experience: %d"
	defaultStackMaxCount = 64
)

// DefaultPresets are the amounts offered in the creative item group.
var DefaultPresets = []int32{100, 500, 1000, 5000, 10000, 50000, 100000, 500000}

var printer = message.NewPrinter(language.English)

// Stack is an item stack as exchanged with the game. Tag is the stack's NBT compound.
type Stack struct {
	ID    string
	Count int
	Tag   []byte
}

func (s Stack) IsEmpty() bool {
	return s.ID == "" || s.Count <= 0
}

// experienceTag is the only entry of the compound this package interprets.
type experienceTag struct {
	Experience int32 `nbt:"experiencebottler:experience"`
}

// ReadExperienceTag returns the experience stored in an item compound, or 0 when there is none.
func ReadExperienceTag(tag []byte) int32 {
	if len(tag) == 0 {
		return 0
	}

	var v experienceTag
	if err := nbt.Unmarshal(tag, &v); err != nil {
		return 0
	}
	return v.Experience
}

// WriteExperienceTag sets the experience entry of an item compound, keeping every other entry.
func WriteExperienceTag(tag []byte, value int32) ([]byte, error) {
	compound := map[string]any{}
	if len(tag) > 0 {
		if err := nbt.Unmarshal(tag, &compound); err != nil {
			return nil, fmt.Errorf("failed to decode item tag: %w", err)
		}
	}
	compound[ExperienceTag] = value

	data, err := nbt.Marshal(compound)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item tag: %w", err)
	}
	return data, nil
}

// NewBottledExperience creates a single bottle holding amount points.
func NewBottledExperience(amount int32) (Stack, error) {
	tag, err := WriteExperienceTag(nil, amount)
	if err != nil {
		return Stack{}, err
	}

	return Stack{ID: BottledExperienceID, Count: 1, Tag: tag}, nil
}

// Presets creates one bottle per amount.
func Presets(amounts []int32) ([]Stack, error) {
	stacks := make([]Stack, 0, len(amounts))
	for _, amount := range amounts {
		stack, err := NewBottledExperience(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to create preset %d: %w", amount, err)
		}
		stacks = append(stacks, stack)
	}

	return stacks, nil
}

// Tooltip is the line shown under a bottle, empty when it holds nothing.
func Tooltip(stack Stack) string {
	if stack.IsEmpty() {
		return ""
	}

	amount := ReadExperienceTag(stack.Tag)
	if amount <= 0 {
		return ""
	}
	return printer.Sprintf(tooltipFormat, amount)
}

// GlassBottles returns a stack of count empty bottles, capped at the stack size.
func GlassBottles(count int) Stack {
	return Stack{ID: GlassBottleID, Count: min(count, defaultStackMaxCount)}
}
