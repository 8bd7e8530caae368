// Package domain holds the types shared by every layer: the error taxonomy
// reported to function callers and the filter/paging/page types used by
// list operations. Entity types live in sub-packages (domain/dummy).
package domain
