package diag

import (
	"fmt"
	"strconv"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Проектирование (design)
	DsnInfo                Code = 1000
	DsnSerializedNullGuard Code = 1001
	DsnForbiddenCoroutine  Code = 1002
	DsnDelegateEvent       Code = 1003
	DsnGuardedCancel       Code = 1004

	// Именование
	NamInfo             Code = 2000
	NamSerializedPrefix Code = 2001
	NamPrivatePrefix    Code = 2002

	// Стиль и порядок членов
	StyInfo           Code = 3000
	StyExpressionBody Code = 3001
	StyMemberOrder    Code = 3002

	// Документация
	DocInfo       Code = 4000
	DocEnumMember Code = 4001

	// IO / загрузка снапшотов
	IOInfo          Code = 5000
	IOLoadFileError Code = 5001
	IODecodeError   Code = 5002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		DsnInfo:                "Design information",
		DsnSerializedNullGuard: "Null check on a serialized field",
		DsnForbiddenCoroutine:  "StartCoroutine is forbidden",
		DsnDelegateEvent:       "Delegate-typed event member",
		DsnGuardedCancel:       "IsActive/Cancel pair can be TryCancel",
		NamInfo:                "Naming information",
		NamSerializedPrefix:    "Serialized field must not start with an underscore",
		NamPrivatePrefix:       "Private field must start with an underscore",
		StyInfo:                "Style information",
		StyExpressionBody:      "Single-statement method can use an expression body",
		StyMemberOrder:         "Member declared out of order",
		DocInfo:                "Documentation information",
		DocEnumMember:          "Enum member lacks a summary comment",
		IOInfo:                 "I/O information",
		IOLoadFileError:        "Failed to load snapshot",
		IODecodeError:          "Failed to decode snapshot",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DSN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("NAM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DOC%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// Category is the human name of the code's range.
func (c Code) Category() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "Design"
	case ic >= 2000 && ic < 3000:
		return "Naming"
	case ic >= 3000 && ic < 4000:
		return "Style"
	case ic >= 4000 && ic < 5000:
		return "Documentation"
	case ic >= 5000 && ic < 6000:
		return "IO"
	}
	return "Unknown"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

var idPrefixes = []string{"DSN", "NAM", "STY", "DOC", "IO"}

// ParseCode accepts either the string id ("STY3002") or the bare number.
func ParseCode(s string) (Code, bool) {
	num := s
	for _, p := range idPrefixes {
		if len(s) > len(p) && s[:len(p)] == p {
			num = s[len(p):]
			break
		}
	}
	n, err := strconv.ParseUint(num, 10, 16)
	if err != nil {
		return UnknownCode, false
	}
	c := Code(n)
	if _, known := codeDescription[c]; !known {
		return UnknownCode, false
	}
	if num != s && c.ID() != s {
		return UnknownCode, false
	}
	return c, true
}
