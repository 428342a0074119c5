package menu

import "testing"

func TestParseCommands(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"quit", Simple(CommandQuit)},
		{"select-server https://chat.example", SelectServer("https://chat.example")},
		{"open-url https://docs.example/help", OpenURL("https://docs.example/help")},
		{"toggle showMenuBar", Toggle(OptionShowMenuBar)},
		{"reload-server", ReloadServer(ReloadOptions{})},
		{"reload-server ignoringCache clearCertificates", ReloadServer(ReloadOptions{IgnoringCache: true, ClearCertificates: true})},
		{"  go-back  ", Simple(CommandGoBack)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.line)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.line, err)
		}
		if got != tt.want {
			t.Fatalf("parse %q: expected %#v, got %#v", tt.line, tt.want, got)
		}
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, line := range []string{
		"",
		"launch-rockets",
		"select-server",
		"toggle showEverything",
		"reload-server harder",
		"quit now",
	} {
		if _, err := Parse(line); err == nil {
			t.Fatalf("expected error for %q", line)
		}
	}
}

func TestParseScriptSkipsCommentsAndReportsLine(t *testing.T) {
	cmds, err := ParseScript("# setup\nselect-server https://a.example\n\ntoggle showTrayIcon\n")
	if err != nil {
		t.Fatalf("parse script: %v", err)
	}
	if len(cmds) != 2 || cmds[0].ID != CommandSelectServer || cmds[1].Option != OptionShowTrayIcon {
		t.Fatalf("unexpected commands %#v", cmds)
	}
	if _, err := ParseScript("quit\nbogus\n"); err == nil || err.Error() != `line 2: unknown command "bogus"` {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
}

func TestRootItemsParseBack(t *testing.T) {
	for _, item := range RootItems() {
		if _, err := Parse(item.ID); err != nil {
			t.Fatalf("root item %q does not parse: %v", item.ID, err)
		}
	}
}

func TestLabels(t *testing.T) {
	if got := Toggle(OptionShowWindowOnUnreadChanged).Label(); got != "toggle showWindowOnUnreadChanged" {
		t.Fatalf("unexpected toggle label %q", got)
	}
	if got := ReloadServer(ReloadOptions{IgnoringCache: true}).Label(); got != "reload server (ignoring cache)" {
		t.Fatalf("unexpected reload label %q", got)
	}
	if got := Simple(CommandOpenDevToolsForServer).Label(); got != "open devtools for server" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestRegistryFind(t *testing.T) {
	called := false
	reg := BuildRegistry(map[CommandID]Action{
		CommandQuit:   func(Command) Result { called = true; return Result{} },
		CommandGoBack: nil,
	})
	node, ok := reg.Find(CommandQuit)
	if !ok || node.Action == nil {
		t.Fatalf("expected quit handler")
	}
	node.Action(Simple(CommandQuit))
	if !called {
		t.Fatalf("expected handler invocation")
	}
	if node, ok := reg.Find(CommandGoBack); !ok || node.Action != nil {
		t.Fatalf("expected known node without handler")
	}
	if _, ok := reg.Find(CommandAbout); ok {
		t.Fatalf("expected about to be absent")
	}
	if ids := reg.IDs(); len(ids) != 2 || ids[0] != CommandGoBack {
		t.Fatalf("unexpected ids %v", ids)
	}
}
