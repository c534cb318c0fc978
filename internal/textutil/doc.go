// Package textutil provides filename sanitization for collection titles.
//
// Titles come straight from directory names, so they may contain characters
// that other filesystems reject or spellings that differ only in Unicode
// composition. SanitizeFolderName maps them onto a single safe segment that is
// used for backup and output directory names.
package textutil
