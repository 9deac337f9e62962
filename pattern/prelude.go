package pattern

// Stock patterns for common lexical shapes.
var (
	// Digits matches one or more decimal digits.
	Digits = Repeat(Range('0', '9'))

	// HexDigits matches one or more hexadecimal digits.
	HexDigits = Repeat(NewCharRangeBuilder().
			AddRange('0', '9').
			AddRange('a', 'f').
			AddRange('A', 'F').
			Build())

	// Integer matches an optional sign followed by one or more decimal
	// digits.
	Integer = Maybe(AnyCharIn("+-")).Then(Digits)

	// SimpleDecimal matches an Integer, optionally followed by a '.' and
	// one or more digits.
	SimpleDecimal = Integer.ThenMaybe(Match(".").Then(Digits))

	// FloatDecimal matches a decimal number that includes a decimal point
	// and/or a scientific exponent and does NOT match Integer. It can
	// start with a decimal point.
	FloatDecimal = AnyOf(
		Integer.ThenString(".").ThenMaybe(Digits).ThenMaybe(MatchI("E").Then(Integer)),
		Match(".").Then(Digits).ThenMaybe(MatchI("E").Then(Integer)),
		Integer.Then(MatchI("E").Then(Integer)),
	)

	// Decimal matches a FloatDecimal or an Integer.
	Decimal = AnyOf(FloatDecimal, Integer)

	// BlockComment matches a C-style block comment.
	BlockComment = Match("/*").
			ThenMaybeRepeat(MaybeRepeatString("*").Then(NotAnyOf("*"))).
			ThenRepeatString("*").
			ThenString("/")

	// LineComment matches a C++-style line comment, not including the
	// trailing newline.
	LineComment = Match("//").ThenMaybeRepeat(NotAnyOf("\n"))

	// DQString matches a double-quoted string with backslash escapes and
	// no carriage returns or newlines.
	DQString = Match("\"").ThenMaybeRepeat(AnyOf(
		NotAnyOf("\"\\\n\r"),
		Match("\\").Then(NotAnyOf("\r\n")),
	)).ThenString("\"")

	// SQString matches a single-quoted string with backslash escapes and
	// no carriage returns or newlines.
	SQString = Match("'").ThenMaybeRepeat(AnyOf(
		NotAnyOf("'\\\n\r"),
		Match("\\").Then(NotAnyOf("\r\n")),
	)).ThenString("'")

	// String matches a single or double-quoted string with backslash
	// escapes and no carriage returns or newlines.
	String = AnyOf(SQString, DQString)
)
