// jcz wraps gzip, bzip2, xz, zip and tar behind one command and layers
// authenticated encryption (password-based or RSA hybrid) on top of the
// compressed output.
package main

import "os"

const version = "0.1.0"

func main() {
	os.Exit(Execute(version))
}
