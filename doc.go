// Package mel implements MEL, a small expression language that reduces a
// column-oriented dataset to one scalar. An expression like
//
//	SUM(revenue) / COUNT_DISTINCT(user_id)
//
// is lexed, parsed and evaluated in one pass over the dataset; the result
// is a single number, text or null cell.
//
// # Literals and operators
//
// Numbers are decimal with an optional fraction (no exponent form). A
// leading minus is part of the literal only at the start of an expression,
// after an opening parenthesis or after an arithmetic operator; in
// argument lists and after comparisons, negative values must be written
// in parentheses, as in IF(x, (-1), 2). Strings use single or double
// quotes with \n, \t, \\ and \" (or \') escapes. The identifier NULL in
// any case is the null literal.
//
// Arithmetic uses + - * / with the usual precedence and left
// associativity; parentheses group. Null operands count as zero, numeric
// text is coerced, and other text is a TypeError. Division by zero is an
// error, not infinity.
//
// A comparison (> < >= <= == != =) yields the number 1 or 0. If either
// side is text, both sides compare as text in plain code point order,
// which is locale-independent: "Éclair" sorts after "Zebra" because É has
// a higher code point. Otherwise both sides compare numerically, with
// null as zero. At most one comparison may appear per expression;
// comparisons do not chain.
//
// # Functions
//
// Function names are case-insensitive. MEAN (aliases AVG, AVERAGE), SUM,
// MIN (MINIMUM), MAX (MAXIMUM) and STDDEV (STDEV) reduce the numeric
// cells of one column, skipping nulls and non-numeric text; MEAN, SUM and
// STDDEV round to four decimals, and STDDEV is the population form.
// COUNT counts non-null cells of any type. COUNT_DISTINCT
// (COUNTDISTINCT) counts distinct non-null values of a column, or, given
// any other expression, evaluates it once per row and counts the distinct
// results. IF(cond, then, else) evaluates only the branch it selects and
// treats null, zero, NaN and empty text as false; the else argument may
// be omitted. TEXT (FIRST_TEXT) reads the first non-null cell of a
// column as text, or the current row's cell inside a per-row expression.
//
// # Errors
//
// Evaluation fails fast with the first error. Every error is a
// *melerr.Error with one of the closed kinds (ParseError, UnexpectedChar,
// UnclosedString, DivisionByZero, TypeError, InvalidArgument,
// MissingColumn, EmptyColumn, UnknownFunction).
//
// Evaluation is a pure function of the expression and the dataset: no
// mutation, no I/O, no dependence on wall clock or locale. Datasets are
// borrowed read-only, so concurrent evaluations over the same dataset
// are safe.
package mel
