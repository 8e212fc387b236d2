package asm

import (
	"encoding/hex"
	"fmt"
	"strings"
)

var mnemonicOf = reverseByteOf()

func reverseByteOf() map[byte]string {
	out := make(map[byte]string, len(byteOf))
	for name, b := range byteOf {
		out[b] = name
	}
	return out
}

// Disassemble renders bytecode as one mnemonic per line, PUSH
// instructions followed by their immediate in hex, the textual listing
// spec.md §6's "asm"/"opcodes" output formats name.
func Disassemble(bytecode []byte) string {
	var lines []string
	for pc := 0; pc < len(bytecode); {
		b := bytecode[pc]
		if b >= push1 && b < push1+32 {
			width := int(b-push1) + 1
			end := pc + 1 + width
			if end > len(bytecode) {
				end = len(bytecode)
			}
			lines = append(lines, fmt.Sprintf("%04x PUSH%d 0x%s", pc, width, hex.EncodeToString(bytecode[pc+1:end])))
			pc = end
			continue
		}
		name, ok := mnemonicOf[b]
		if !ok {
			name = fmt.Sprintf("0x%02x", b)
		}
		lines = append(lines, fmt.Sprintf("%04x %s", pc, name))
		pc++
	}
	return strings.Join(lines, "\n")
}
