// Package restyutil dumps the raw http exchanges of a resty client, for
// figuring out why a page did not parse the way it was expected to.
package restyutil

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type messageIdKeyType int

var messageIdKey messageIdKeyType

type dumper struct {
	output    Output
	idcounter *uint64
}

// Dump writes every request made by client along with its response to output.
// A nil output is a no-op.
func Dump(client *resty.Client, output Output) {
	if output == nil {
		return
	}

	var idcounter uint64
	d := dumper{output: output, idcounter: &idcounter}
	client.OnBeforeRequest(d.onBeforeRequest)
	client.OnAfterResponse(d.onAfterResponse)
}

func (d dumper) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	id := atomic.AddUint64(d.idcounter, 1)
	req.SetContext(context.WithValue(req.Context(), messageIdKey, id))
	return nil
}

func (d dumper) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id, ok := res.Request.Context().Value(messageIdKey).(uint64)
	if !ok {
		return nil
	}
	d.output.Write(
		fmt.Sprintf("%04d.txt", id),
		formatHttpMessage(res),
	)
	return nil
}
