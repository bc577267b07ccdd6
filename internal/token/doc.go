// Package token defines lexical token kinds for the nix expression language.
// Invariants:
//   - The token stream is lossless: concatenating Token.Text of every token
//     (trivia included) reproduces the source byte for byte.
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace and comments are ordinary tokens classified by Kind.IsTrivia;
//     they are never attached to neighbouring tokens.
//   - Keywords are recognised only in lowercase.
package token
