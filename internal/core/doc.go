// Package core provides the lead import engine.
//
// The engine turns an uploaded CSV or XLSX file into lead records for a
// prospecting search. It has no transport dependencies and is used by the
// HTTP server and by leadctl alike.
//
// # Pipeline
//
//  1. [DetectFormat] picks CSV or XLSX from the file name, MIME type and
//     magic bytes. Anything else fails with [ErrUnsupportedFormat].
//  2. [ReadTable] produces a [RawTable]. CSV text is decoded (UTF-8 or
//     Windows-1252) and split on the separator found by [DetectSeparator].
//  3. [ResolveMapping] matches the header row to lead fields through a
//     cascade of increasingly permissive strategies. When no name, email or
//     phone column is recognized, columns 0, 1 and 2 are used instead.
//  4. Each data row is normalized ([RepairText], [FormatPhone]) and handed to
//     a [LeadStore]. A row that fails only increases the error count.
//
// # Service
//
// [Service] wraps the engine with a search existence check, a concurrency
// limit ([ImportLimiter]), a timeout and optional collaborators for history,
// result caching, events, file archiving and metrics.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a code for support reference (FILE, IMP, UPL, DB,
// RATE).
package core
