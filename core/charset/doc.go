// Package charset detects and decodes the text encoding of uploaded files and
// guesses the field delimiter of delimited text.
//
// # Detection order
//
// Detect applies the following checks and returns on the first match:
//  1. Byte-order mark (UTF-8, UTF-16LE, UTF-16BE).
//  2. UTF-16 heuristic: more than 10% zero bytes in the first 10,000 bytes.
//  3. UTF-8 round trip: decoding and re-encoding reproduces the input.
//  4. Latin-1 heuristic: high bytes that are common accented letters.
//  5. The declared charset, else UTF-8.
//
// Decode retries once with the complementary encoding (UTF-8 <-> ISO-8859-1)
// before giving up, so a wrong guess does not abort an import.
//
// # Usage
//
//	enc := charset.Detect(data, settings.Encoding)
//	text, used, err := charset.Decode(data, enc)
package charset
