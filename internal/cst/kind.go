package cst

import (
	"errors"
	"fmt"
)

// Kind tags a CST node. The set is closed: every conversion site switches over
// it exhaustively.
type Kind uint16

const (
	KindInvalid Kind = iota

	// file structure
	KindFile
	KindPackageDirective
	KindImportList
	KindImportDirective
	KindImportAlias
	KindQualifiedName
	KindFileAnnotationList
	KindModifierList
	KindModifier
	KindAnnotationEntry
	KindAnnotationTarget
	KindConstructorCallee
	KindIdentifier
	KindKeyword
	KindLabel
	KindStar

	// declarations
	KindClass
	KindObjectDeclaration
	KindTypeAlias
	KindFun
	KindProperty
	KindPropertyAccessor
	KindPropertyDelegate
	KindPrimaryConstructor
	KindSecondaryConstructor
	KindConstructorDelegationCall
	KindAnonymousInitializer
	KindEnumEntry
	KindClassBody
	KindTypeParameterList
	KindTypeParameter
	KindTypeConstraintList
	KindTypeConstraint
	KindValueParameterList
	KindValueParameter
	KindSuperTypeList
	KindSuperTypeEntry
	KindSuperTypeCallEntry
	KindDelegatedSuperTypeEntry

	// types
	KindTypeReference
	KindUserType
	KindNullableType
	KindFunctionType
	KindFunctionTypeReceiver
	KindDynamicType
	KindTypeArgumentList
	KindTypeProjection

	// expressions
	KindBlock
	KindCallExpression
	KindValueArgumentList
	KindValueArgument
	KindValueArgumentName
	KindLambdaArgument
	KindReferenceExpression
	KindDotQualifiedExpression
	KindSafeAccessExpression
	KindBinaryExpression
	KindBinaryWithType
	KindIsExpression
	KindOperationReference
	KindPrefixExpression
	KindPostfixExpression
	KindParenthesized
	KindArrayAccessExpression
	KindIndices
	KindIf
	KindCondition
	KindThen
	KindElse
	KindWhen
	KindWhenEntry
	KindWhenConditionExpression
	KindWhenConditionInRange
	KindWhenConditionIsPattern
	KindWhile
	KindDoWhile
	KindFor
	KindLoopRange
	KindBody
	KindBreak
	KindContinue
	KindReturn
	KindThrow
	KindLabeledExpression
	KindThis
	KindSuper
	KindTry
	KindCatch
	KindFinally
	KindLambdaExpression
	KindFunctionLiteral
	KindObjectLiteral
	KindIntegerConstant
	KindFloatConstant
	KindCharacterConstant
	KindBooleanConstant
	KindNull
	KindStringTemplate
	KindLiteralStringEntry
	KindEscapeStringEntry
	KindShortStringEntry
	KindLongStringEntry

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:                   "INVALID",
	KindFile:                      "FILE",
	KindPackageDirective:          "PACKAGE_DIRECTIVE",
	KindImportList:                "IMPORT_LIST",
	KindImportDirective:           "IMPORT_DIRECTIVE",
	KindImportAlias:               "IMPORT_ALIAS",
	KindQualifiedName:             "QUALIFIED_NAME",
	KindFileAnnotationList:        "FILE_ANNOTATION_LIST",
	KindModifierList:              "MODIFIER_LIST",
	KindModifier:                  "MODIFIER",
	KindAnnotationEntry:           "ANNOTATION_ENTRY",
	KindAnnotationTarget:          "ANNOTATION_TARGET",
	KindConstructorCallee:         "CONSTRUCTOR_CALLEE",
	KindIdentifier:                "IDENTIFIER",
	KindKeyword:                   "KEYWORD",
	KindLabel:                     "LABEL",
	KindStar:                      "STAR",
	KindClass:                     "CLASS",
	KindObjectDeclaration:         "OBJECT_DECLARATION",
	KindTypeAlias:                 "TYPEALIAS",
	KindFun:                       "FUN",
	KindProperty:                  "PROPERTY",
	KindPropertyAccessor:          "PROPERTY_ACCESSOR",
	KindPropertyDelegate:          "PROPERTY_DELEGATE",
	KindPrimaryConstructor:        "PRIMARY_CONSTRUCTOR",
	KindSecondaryConstructor:      "SECONDARY_CONSTRUCTOR",
	KindConstructorDelegationCall: "CONSTRUCTOR_DELEGATION_CALL",
	KindAnonymousInitializer:      "ANONYMOUS_INITIALIZER",
	KindEnumEntry:                 "ENUM_ENTRY",
	KindClassBody:                 "CLASS_BODY",
	KindTypeParameterList:         "TYPE_PARAMETER_LIST",
	KindTypeParameter:             "TYPE_PARAMETER",
	KindTypeConstraintList:        "TYPE_CONSTRAINT_LIST",
	KindTypeConstraint:            "TYPE_CONSTRAINT",
	KindValueParameterList:        "VALUE_PARAMETER_LIST",
	KindValueParameter:            "VALUE_PARAMETER",
	KindSuperTypeList:             "SUPER_TYPE_LIST",
	KindSuperTypeEntry:            "SUPER_TYPE_ENTRY",
	KindSuperTypeCallEntry:        "SUPER_TYPE_CALL_ENTRY",
	KindDelegatedSuperTypeEntry:   "DELEGATED_SUPER_TYPE_ENTRY",
	KindTypeReference:             "TYPE_REFERENCE",
	KindUserType:                  "USER_TYPE",
	KindNullableType:              "NULLABLE_TYPE",
	KindFunctionType:              "FUNCTION_TYPE",
	KindFunctionTypeReceiver:      "FUNCTION_TYPE_RECEIVER",
	KindDynamicType:               "DYNAMIC_TYPE",
	KindTypeArgumentList:          "TYPE_ARGUMENT_LIST",
	KindTypeProjection:            "TYPE_PROJECTION",
	KindBlock:                     "BLOCK",
	KindCallExpression:            "CALL_EXPRESSION",
	KindValueArgumentList:         "VALUE_ARGUMENT_LIST",
	KindValueArgument:             "VALUE_ARGUMENT",
	KindValueArgumentName:         "VALUE_ARGUMENT_NAME",
	KindLambdaArgument:            "LAMBDA_ARGUMENT",
	KindReferenceExpression:       "REFERENCE_EXPRESSION",
	KindDotQualifiedExpression:    "DOT_QUALIFIED_EXPRESSION",
	KindSafeAccessExpression:      "SAFE_ACCESS_EXPRESSION",
	KindBinaryExpression:          "BINARY_EXPRESSION",
	KindBinaryWithType:            "BINARY_WITH_TYPE",
	KindIsExpression:              "IS_EXPRESSION",
	KindOperationReference:        "OPERATION_REFERENCE",
	KindPrefixExpression:          "PREFIX_EXPRESSION",
	KindPostfixExpression:         "POSTFIX_EXPRESSION",
	KindParenthesized:             "PARENTHESIZED",
	KindArrayAccessExpression:     "ARRAY_ACCESS_EXPRESSION",
	KindIndices:                   "INDICES",
	KindIf:                        "IF",
	KindCondition:                 "CONDITION",
	KindThen:                      "THEN",
	KindElse:                      "ELSE",
	KindWhen:                      "WHEN",
	KindWhenEntry:                 "WHEN_ENTRY",
	KindWhenConditionExpression:   "WHEN_CONDITION_EXPRESSION",
	KindWhenConditionInRange:      "WHEN_CONDITION_IN_RANGE",
	KindWhenConditionIsPattern:    "WHEN_CONDITION_IS_PATTERN",
	KindWhile:                     "WHILE",
	KindDoWhile:                   "DO_WHILE",
	KindFor:                       "FOR",
	KindLoopRange:                 "LOOP_RANGE",
	KindBody:                      "BODY",
	KindBreak:                     "BREAK",
	KindContinue:                  "CONTINUE",
	KindReturn:                    "RETURN",
	KindThrow:                     "THROW",
	KindLabeledExpression:         "LABELED_EXPRESSION",
	KindThis:                      "THIS_EXPRESSION",
	KindSuper:                     "SUPER_EXPRESSION",
	KindTry:                       "TRY",
	KindCatch:                     "CATCH",
	KindFinally:                   "FINALLY",
	KindLambdaExpression:          "LAMBDA_EXPRESSION",
	KindFunctionLiteral:           "FUNCTION_LITERAL",
	KindObjectLiteral:             "OBJECT_LITERAL",
	KindIntegerConstant:           "INTEGER_CONSTANT",
	KindFloatConstant:             "FLOAT_CONSTANT",
	KindCharacterConstant:         "CHARACTER_CONSTANT",
	KindBooleanConstant:           "BOOLEAN_CONSTANT",
	KindNull:                      "NULL",
	KindStringTemplate:            "STRING_TEMPLATE",
	KindLiteralStringEntry:        "LITERAL_STRING_TEMPLATE_ENTRY",
	KindEscapeStringEntry:         "ESCAPE_STRING_TEMPLATE_ENTRY",
	KindShortStringEntry:          "SHORT_STRING_TEMPLATE_ENTRY",
	KindLongStringEntry:           "LONG_STRING_TEMPLATE_ENTRY",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k) // #nosec G115 -- bounded by kindCount
	}
	return m
}()

// ErrUnknownKind is returned when decoding a kind name that is not in the set.
var ErrUnknownKind = errors.New("unknown CST node kind")

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// ParseKind maps a kind name (as produced by String) back to the Kind.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindByName[name]; ok && k != KindInvalid {
		return k, nil
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// IsDeclaration reports kinds that may appear in a file or class body.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindClass, KindObjectDeclaration, KindTypeAlias, KindFun, KindProperty,
		KindSecondaryConstructor, KindAnonymousInitializer, KindEnumEntry:
		return true
	}
	return false
}

// IsExpression reports kinds that may appear in expression position.
func (k Kind) IsExpression() bool {
	switch k {
	case KindBlock, KindCallExpression, KindReferenceExpression, KindDotQualifiedExpression,
		KindSafeAccessExpression, KindBinaryExpression, KindBinaryWithType, KindIsExpression,
		KindPrefixExpression, KindPostfixExpression, KindParenthesized, KindArrayAccessExpression,
		KindIf, KindWhen, KindWhile, KindDoWhile, KindFor, KindBreak, KindContinue, KindReturn,
		KindThrow, KindLabeledExpression, KindThis, KindSuper, KindTry, KindLambdaExpression,
		KindObjectLiteral, KindIntegerConstant, KindFloatConstant, KindCharacterConstant,
		KindBooleanConstant, KindNull, KindStringTemplate:
		return true
	}
	return false
}

// IsTypeElement reports kinds that may appear inside a TYPE_REFERENCE.
func (k Kind) IsTypeElement() bool {
	switch k {
	case KindUserType, KindNullableType, KindFunctionType, KindDynamicType:
		return true
	}
	return false
}
