// Package dataset converts table annotation records to OTSL in bulk.
//
// Input is a stream of JSON records, either one per line (JSONL) or a single
// JSON array. Each record carries its table markup in the "html" field,
// either as a raw HTML string:
//
//	{"filename": "t1.png", "split": "train", "html": "<table>...</table>"}
//
// or in the tokenized form used by PubTabNet and FinTabNet, where the table
// structure and the cell contents are stored separately:
//
//	{"filename": "t2.png", "html": {
//	    "structure": {"tokens": ["<tr>", "<td>", "</td>", "</tr>"]},
//	    "cells": [{"tokens": ["4", "2"]}]}}
//
// A [Processor] writes one JSONL [Result] per converted record.
package dataset
