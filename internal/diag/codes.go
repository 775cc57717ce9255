package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Input
	IOInfo        Code = 1000
	IOReadFailed  Code = 1001
	IODecodeError Code = 1002

	// Lowering
	LowInfo                  Code = 2000
	LowMissingChild          Code = 2001
	LowMalformedLiteral      Code = 2002
	LowUnsupportedOperator   Code = 2003
	LowUnsupportedTarget     Code = 2004
	LowUnsupportedCondition  Code = 2005
	LowInvalidType           Code = 2006
	LowReturnOutsideFunction Code = 2007
	LowUnsupportedCallee     Code = 2008
	LowUnsupportedSelector   Code = 2009
	LowInternal              Code = 2099

	// IR validation
	ValInfo      Code = 3000
	ValStructure Code = 3001

	// Project
	PrjInfo            Code = 4000
	PrjManifestInvalid Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	IOInfo:                   "Input information",
	IOReadFailed:             "Cannot read input file",
	IODecodeError:            "Cannot decode syntax tree",
	LowInfo:                  "Lowering information",
	LowMissingChild:          "Missing syntax element",
	LowMalformedLiteral:      "Malformed literal",
	LowUnsupportedOperator:   "Unsupported operator",
	LowUnsupportedTarget:     "Unsupported assignment target",
	LowUnsupportedCondition:  "Unsupported when condition",
	LowInvalidType:           "Invalid type reference",
	LowReturnOutsideFunction: "Return outside of a function",
	LowUnsupportedCallee:     "Unsupported callee",
	LowUnsupportedSelector:   "Unsupported selector",
	LowInternal:              "Internal lowering error",
	ValInfo:                  "Validation information",
	ValStructure:             "Malformed IR structure",
	PrjInfo:                  "Project information",
	PrjManifestInvalid:       "Invalid project manifest",
}

// ID returns the stable short form, e.g. LOW2001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("VAL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
