package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/storage"
)

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	ctx.println(maskPassword(ctx.Store.GetConfigPath()))
	ctx.println(mutedStyle.Render("log: " + logger.LogPath(ctx.Config.ConfigDir)))
	return nil
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		ctx.println(k)
	}
	return nil
}

type DebugDumpKeyCmd struct {
	Key string `arg:"" help:"Storage key to print."`
}

func (cmd *DebugDumpKeyCmd) Run(ctx *Context) error {
	value, ok, err := ctx.Store.Get(cmd.Key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("key %q not found", cmd.Key)
	}
	ctx.println(prettyJSON(value))
	return nil
}

type DebugHistoryCmd struct {
	Key string `arg:"" help:"Storage key."`
}

func (cmd *DebugHistoryCmd) Run(ctx *Context) error {
	h, ok := ctx.Store.(storage.Historian)
	if !ok {
		return errors.New("this backend does not keep value history")
	}
	values, err := h.History(cmd.Key)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		ctx.printf("No history for %s.\n", cmd.Key)
		return nil
	}
	for i, v := range values {
		ctx.println(headingStyle.Render(fmt.Sprintf("#%d", i+1)))
		ctx.println(prettyJSON(v))
	}
	return nil
}

// prettyJSON indents value, or returns it unchanged when it is not JSON
func prettyJSON(value string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(value), "", "  "); err != nil {
		return value
	}
	return buf.String()
}
