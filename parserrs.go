package algebra

import "strconv"

// OperatorError is an error indicating an operator token in a position where
// the parser cannot use it, e.g. the second operator in "2 * / 3". It
// implements ParseError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating unbalanced parentheses in the input. It
// implements ParseError.
type BracketError struct {
	// Col is the position of the token where the mismatch was detected.
	Col int
	// Left is the opening bracket, or empty if there was none.
	Left string
	// Right is the closing bracket, or empty if there was none.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating an equals sign where it is not
// allowed: in an expression, inside parentheses, or a second one in an
// equation. It implements ParseError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements ParseError.
type CallError struct {
	// Col is the position of the token following the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the call tried to imply, or -1 if the
	// argument was not parenthesized.
	Len int
}

func (err *CallError) Error() string {
	if err.Len < 0 {
		return errpos(err.Col, "cannot call "+err.Func+" without a parenthesized argument")
	}
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

// UnknownFuncError is an error indicating a call to a name that is not a
// function. It implements ParseError.
type UnknownFuncError struct {
	// Col is the position of the name.
	Col int
	// Name is the name used as a function.
	Name string
}

func (err *UnknownFuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *UnknownFuncError) Pos() int {
	return err.Col
}

// MissingOperatorError is an error indicating two terms next to each other,
// e.g. "2 x" or "2(x + 1)". Juxtaposition is not multiplication. It
// implements ParseError.
type MissingOperatorError struct {
	// Col is the position of the second term.
	Col int
	// Text is the token that starts the second term.
	Text string
}

func (err *MissingOperatorError) Error() string {
	return errpos(err.Col, "missing operator before "+strconv.Quote(err.Text)+" (use * to multiply)")
}

func (err *MissingOperatorError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression. It
// implements ParseError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// ParseError is an error with position information. Every error resulting from
// malformed input text implements ParseError.
type ParseError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ ParseError = (*OperatorError)(nil)
	_ ParseError = (*BracketError)(nil)
	_ ParseError = (*SeparatorError)(nil)
	_ ParseError = (*CallError)(nil)
	_ ParseError = (*UnknownFuncError)(nil)
	_ ParseError = (*MissingOperatorError)(nil)
	_ ParseError = (*EmptyExpressionError)(nil)
	_ ParseError = (*LexError)(nil)
)
