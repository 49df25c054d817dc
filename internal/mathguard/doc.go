// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathguard answers arithmetic questions locally before any
// request reaches the upstream model.
//
// A user message is normalized (operator words like "times" and
// "divided by" become symbols, everything non-arithmetic is stripped),
// the longest plausible expression is extracted, and a small
// recursive-descent evaluator computes it. Evaluation never uses
// reflection or any form of code execution; only + - * / ^ with
// parentheses and unary minus are understood. Anything the evaluator
// cannot handle simply falls through to the model backend.
package mathguard
