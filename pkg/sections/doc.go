// Package sections splits text configuration files into named line groups.
//
// A file opts into section management through its first line:
//
//	# conf-sync managed
//
// The first whitespace-delimited token of that line ("#" above) becomes the
// file's comment token. From then on, lines of the form
//
//	# conf-sync begin-section=<name>
//	# conf-sync end-section
//
// open and close managed sections. Lines outside any managed section are
// collected into synthetic unmanaged sections named unknown-0, unknown-1, ...
// in order of appearance. Files whose first line is not a managed header have
// no comment token, so no marker is recognized and the whole file becomes
// unknown-0.
//
// The resulting Store preserves encounter order, and concatenating every
// section's lines in AllKeys order yields the original input exactly.
package sections
