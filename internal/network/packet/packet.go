package packet

import (
	"bytes"
	"errors"
	"fmt"

	pk "github.com/Tnze/go-mc/net/packet"
)

// Kafka topics carrying encoded packets, keyed by player UUID.
const (
	ServerboundTopic = "experience-bottler"
	ClientboundTopic = "experience-bottler-client"
)

// Serverbound packet IDs.
const (
	OpenBottler int32 = iota
	BottlingExperience
	InsertBottles
	TakeResult
	CloseBottler
	DrinkBottle
)

// Clientbound packet IDs.
const (
	ResultUpdate int32 = iota
	SourceUpdate
)

var ErrEmptyPacket = errors.New("empty packet")

var serverboundNames = map[int32]string{
	OpenBottler:        "open_bottler",
	BottlingExperience: "bottling_experience",
	InsertBottles:      "insert_bottles",
	TakeResult:         "take_result",
	CloseBottler:       "close_bottler",
	DrinkBottle:        "drink_bottle",
}

// ServerboundName is the metric and log name of a serverbound packet ID.
func ServerboundName(id int32) string {
	if name, ok := serverboundNames[id]; ok {
		return name
	}
	return "unknown"
}

// Encode frames p as its VarInt ID followed by its payload.
func Encode(p pk.Packet) []byte {
	var buf bytes.Buffer
	_, _ = pk.VarInt(p.ID).WriteTo(&buf)
	buf.Write(p.Data)
	return buf.Bytes()
}

// Decode reverses Encode.
func Decode(data []byte) (pk.Packet, error) {
	if len(data) == 0 {
		return pk.Packet{}, ErrEmptyPacket
	}

	r := bytes.NewReader(data)
	var id pk.VarInt
	if _, err := id.ReadFrom(r); err != nil {
		return pk.Packet{}, fmt.Errorf("failed to read packet id: %w", err)
	}

	return pk.Packet{ID: int32(id), Data: data[len(data)-r.Len():]}, nil
}

func NewOpenBottler(creative bool) pk.Packet {
	return pk.Marshal(OpenBottler, pk.Boolean(creative))
}

func ParseOpenBottler(p pk.Packet) (bool, error) {
	var creative pk.Boolean
	if err := p.Scan(&creative); err != nil {
		return false, fmt.Errorf("failed to parse open bottler: %w", err)
	}
	return bool(creative), nil
}

// NewBottlingExperience carries the amount the player chose to bottle.
func NewBottlingExperience(amount int32) pk.Packet {
	return pk.Marshal(BottlingExperience, pk.Int(amount))
}

func ParseBottlingExperience(p pk.Packet) (int32, error) {
	var amount pk.Int
	if err := p.Scan(&amount); err != nil {
		return 0, fmt.Errorf("failed to parse bottling experience: %w", err)
	}
	return int32(amount), nil
}

func NewInsertBottles(count int32) pk.Packet {
	return pk.Marshal(InsertBottles, pk.VarInt(count))
}

func ParseInsertBottles(p pk.Packet) (int32, error) {
	var count pk.VarInt
	if err := p.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to parse insert bottles: %w", err)
	}
	return int32(count), nil
}

func NewTakeResult() pk.Packet {
	return pk.Marshal(TakeResult)
}

func NewCloseBottler() pk.Packet {
	return pk.Marshal(CloseBottler)
}

// NewDrinkBottle carries the NBT compound of the bottle that was drunk.
func NewDrinkBottle(tag []byte) pk.Packet {
	return pk.Marshal(DrinkBottle, pk.ByteArray(tag))
}

func ParseDrinkBottle(p pk.Packet) ([]byte, error) {
	var tag pk.ByteArray
	if err := p.Scan(&tag); err != nil {
		return nil, fmt.Errorf("failed to parse drink bottle: %w", err)
	}
	return tag, nil
}

// NewResultUpdate reports the amount in the result slot, 0 when it is empty.
func NewResultUpdate(amount int32) pk.Packet {
	return pk.Marshal(ResultUpdate, pk.Int(amount))
}

func ParseResultUpdate(p pk.Packet) (int32, error) {
	var amount pk.Int
	if err := p.Scan(&amount); err != nil {
		return 0, fmt.Errorf("failed to parse result update: %w", err)
	}
	return int32(amount), nil
}

// NewSourceUpdate reports the player's total experience.
func NewSourceUpdate(total int64) pk.Packet {
	return pk.Marshal(SourceUpdate, pk.Long(total))
}

func ParseSourceUpdate(p pk.Packet) (int64, error) {
	var total pk.Long
	if err := p.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to parse source update: %w", err)
	}
	return int64(total), nil
}
