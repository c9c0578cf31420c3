package compose_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/compose"
	"github.com/stackplan/stackplan/pkg/manifest"
	"github.com/stackplan/stackplan/pkg/resolve"
)

// Example composes a minimal active-active design and prints the
// per-region web application nodes.
func Example() {
	req := manifest.Requirements{
		Regions: []string{"eu-west-1", "us-east-1"},
		HAMode:  manifest.HAActiveActive,
		Services: []manifest.ServiceIntent{
			{Kind: catalog.KindWebApp},
		},
	}

	opts := resolve.DefaultOptions()
	opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	intents, err := resolve.Expand(context.Background(), req.Services, opts)
	if err != nil {
		panic(err)
	}

	g, err := compose.Compose(req, intents, compose.DefaultPattern)
	if err != nil {
		panic(err)
	}

	for _, n := range g.NodesOfKind(catalog.KindWebApp) {
		fmt.Printf("%s in %s\n", n.ID, n.Cluster)
	}
	// Output:
	// web_app-eu-west-1 in compute-eu-west-1
	// web_app-us-east-1 in compute-us-east-1
}
