// Command ops bundles the site maintenance jobs so they run from one
// binary on a box or in CI: Lighthouse audits, content freshness checks,
// npm dependency audits, and index generation.
package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ops <lighthouse|freshness|audit|index> [flags]")
	}

	switch os.Args[1] {
	case "lighthouse":
		RunLighthouse(os.Args[2:])
	case "freshness":
		RunFreshness(os.Args[2:])
	case "audit":
		RunAudit(os.Args[2:])
	case "index":
		RunIndex(os.Args[2:])
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
