package exception

import (
	"fmt"
	"strconv"
	"strings"
)

const diagnosticPrefix = "exception: "

// Diagnostic is the single line reported for a fatal or reported exception:
//
//	exception: data abort same EL (write, translation level 2) type=CurrentElSpxSync(0x11) ec=0x25 esr=0x96000046 spsr=0x3c5 far=0x7fe00000 elr=0x81234
func Diagnostic(r Record, c Classification) string {
	return fmt.Sprintf("%s%s type=%s(%#02x) ec=%#02x esr=%#x spsr=%#x far=%#x elr=%#x",
		diagnosticPrefix, c, r.Type, uint32(r.Type), uint8(c.Class), r.ESR, r.SPSR, r.FAR, r.ELR)
}

// ParseDiagnostic finds a diagnostic in line, which may carry a logger
// prefix, and recovers the record it was made from.
func ParseDiagnostic(line string) (Record, bool) {
	i := strings.Index(line, diagnosticPrefix)
	if i < 0 {
		return Record{}, false
	}
	var r Record
	found := 0
	for _, field := range strings.Fields(line[i+len(diagnosticPrefix):]) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		if key == "type" {
			open := strings.IndexByte(value, '(')
			if open < 0 || !strings.HasSuffix(value, ")") {
				return Record{}, false
			}
			v, err := strconv.ParseUint(value[open+1:len(value)-1], 0, 32)
			if err != nil {
				return Record{}, false
			}
			r.Type = Type(v)
			found++
			continue
		}
		var dst *uint64
		switch key {
		case "esr":
			dst = &r.ESR
		case "spsr":
			dst = &r.SPSR
		case "far":
			dst = &r.FAR
		case "elr":
			dst = &r.ELR
		default:
			continue
		}
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return Record{}, false
		}
		*dst = v
		found++
	}
	return r, found == 5
}
