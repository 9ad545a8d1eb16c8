package encio

import (
	"io"
	"os"
)

// Warnings is where warnings are sent to.
// In many cases posenc will continue to operate with e.g. incorrectly implemented io.Writers or ignorable struct tags,
// however I don't want to silently put up with things that seem worrying.
var Warnings io.Writer = os.Stderr
