package pipeline_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/pipeline"
	"github.com/matzehuels/crumbtrail/pkg/render"
)

func ExampleRunner_Content() {
	runner := pipeline.NewRunner[int](nil, nil, nil, log.New(io.Discard))

	out, err := runner.Content(context.Background(), pipeline.Params[int]{
		Nodes: []breadcrumb.Node[int]{
			{ID: 1, Path: "/", Name: "Home"},
			{ID: 2, ParentID: 1, Path: "shop/", Name: "Shop"},
			{ID: 3, ParentID: 2, Path: "shop/shoes", Name: "Shoes"},
		},
		CurrentPath: "shop/shoes",
		URLPrefix:   "https://example.com/",
		Connector:   ">",
		Template:    render.NameJSON,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(out)
	// Output:
	// {
	//   "crumbs": [
	//     {
	//       "name": "Home",
	//       "path": "https://example.com/"
	//     },
	//     {
	//       "name": "Shop",
	//       "path": "https://example.com/shop/"
	//     },
	//     {
	//       "name": "Shoes",
	//       "path": "https://example.com/shop/shoes",
	//       "current": true
	//     }
	//   ],
	//   "connector": ">"
	// }
}
