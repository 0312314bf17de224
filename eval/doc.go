// Package eval measures retrieval quality against a question set.
//
// Question sets are JSON arrays of items:
//
//	[{"q": "What does 7:244 BW say?", "must": ["boek7"], "k": 4}]
//
// A question is a hit when any of its must substrings occurs in a
// retrieved chunk's source path or text. The report carries hit@1, hit@k,
// mean reciprocal rank, and latency figures, plus per-question details.
package eval
