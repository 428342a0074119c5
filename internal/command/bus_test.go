package command

import (
	"errors"
	"testing"

	"github.com/atomicstack/shell-sync/internal/menu"
)

func TestExecuteRoutesToHandler(t *testing.T) {
	var got menu.Command
	reg := menu.BuildRegistry(map[menu.CommandID]menu.Action{
		menu.CommandSelectServer: func(cmd menu.Command) menu.Result {
			got = cmd
			return menu.Result{Info: "selected"}
		},
	})
	res := New(reg).Execute(menu.SelectServer("https://a.example"))
	if res.Info != "selected" || res.Err != nil || res.Noop {
		t.Fatalf("unexpected result %#v", res)
	}
	if got.URL != "https://a.example" {
		t.Fatalf("expected payload to reach handler, got %#v", got)
	}
}

func TestExecuteUnknownCommandIsNoop(t *testing.T) {
	res := New(menu.BuildRegistry(nil)).Execute(menu.Simple(menu.CommandAbout))
	if !res.Noop || res.Err != nil {
		t.Fatalf("expected no-op result, got %#v", res)
	}
}

func TestExecutePropagatesHandlerError(t *testing.T) {
	boom := errors.New("registry offline")
	reg := menu.BuildRegistry(map[menu.CommandID]menu.Action{
		menu.CommandResetAppData: func(menu.Command) menu.Result { return menu.Result{Err: boom} },
	})
	res := New(reg).Execute(menu.Simple(menu.CommandResetAppData))
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected handler error, got %#v", res)
	}
}
