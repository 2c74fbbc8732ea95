package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/everyday-items/hqueue/internal/errs"
	"github.com/everyday-items/hqueue/queue"
)

// ErrShortFrame is returned when a header or payload ends before the length
// it declared — always a wire violation, fatal to whichever side reads it.
var ErrShortFrame = errs.New("wire: short frame")

// ErrBadOpcode is returned when a header names a token outside the opcode
// table.
var ErrBadOpcode = errs.New("wire: unrecognized opcode")

// ErrArgCount is returned when a header's argument count does not match
// what its opcode requires.
var ErrArgCount = errs.New("wire: wrong argument count for opcode")

// Request is one decoded request frame: an opcode, the queue it targets, its
// integer arguments (priority, index, threshold — opcode-dependent), and any
// item payloads an enqueue/insert variant carries.
type Request struct {
	Op      Op
	QueueID int64
	Args    []int64
	Items   []queue.Item
}

// Status is the first field of a response frame.
type Status byte

const (
	StatusOK     Status = 'K' // operation applied, Items/Args (if any) are valid
	StatusAbsent Status = 'A' // queue was empty or index out of range; not an error
	StatusError  Status = 'E' // user error or mode violation; ErrMsg is set
)

// Response is one decoded response frame.
type Response struct {
	Status Status
	Args   []int64
	Items  []queue.Item
	ErrMsg string
}

// WriteRequest encodes req to w: a header line of space-separated ASCII
// fields, then, for opcodes that carry one, an item count line followed by
// each item as a decimal length line, the raw bytes, and a trailing marker
// byte ('0' scalar, '1' frozen).
func WriteRequest(w io.Writer, req Request) error {
	if !req.Op.Valid() {
		return ErrBadOpcode
	}
	if len(req.Args) != argCount[req.Op] {
		return ErrArgCount
	}

	fields := []string{string(req.Op), strconv.FormatInt(req.QueueID, 10)}
	for _, a := range req.Args {
		fields = append(fields, strconv.FormatInt(a, 10))
	}
	if _, err := io.WriteString(w, strings.Join(fields, " ")+"\n"); err != nil {
		return err
	}

	if !hasItemPayload(req.Op) {
		return nil
	}
	return writeItems(w, req.Items)
}

func writeItems(w io.Writer, items []queue.Item) error {
	if _, err := io.WriteString(w, strconv.Itoa(len(items))+"\n"); err != nil {
		return err
	}
	for _, item := range items {
		if err := writeItem(w, item); err != nil {
			return err
		}
	}
	return nil
}

func writeItem(w io.Writer, item queue.Item) error {
	if _, err := io.WriteString(w, strconv.Itoa(len(item.Data))+"\n"); err != nil {
		return err
	}
	if _, err := w.Write(item.Data); err != nil {
		return err
	}
	marker := byte('0')
	if item.Kind == queue.KindFrozen {
		marker = '1'
	}
	_, err := w.Write([]byte{marker})
	return err
}

func readItem(r *bufio.Reader) (queue.Item, error) {
	n, err := readLengthLine(r)
	if err != nil {
		return queue.Item{}, err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return queue.Item{}, errs.Wrap(ErrShortFrame, err.Error())
	}
	marker, err := r.ReadByte()
	if err != nil {
		return queue.Item{}, errs.Wrap(ErrShortFrame, err.Error())
	}
	if marker == '1' {
		return queue.FrozenItem(data), nil
	}
	return queue.BytesItem(data), nil
}

func readItems(r *bufio.Reader) ([]queue.Item, error) {
	count, err := readLengthLine(r)
	if err != nil {
		return nil, err
	}
	items := make([]queue.Item, count)
	for i := range items {
		item, err := readItem(r)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func readLengthLine(r *bufio.Reader) (int, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, errs.Wrap(ErrShortFrame, err.Error())
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 {
		return 0, errs.Wrap(ErrShortFrame, "invalid length line")
	}
	return n, nil
}

// ReadRequest decodes one request frame from r.
func ReadRequest(r *bufio.Reader) (Request, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return Request{}, errs.Wrap(ErrShortFrame, err.Error())
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Request{}, errs.Wrap(ErrShortFrame, "missing header fields")
	}

	op := Op(fields[0])
	if !op.Valid() {
		return Request{}, ErrBadOpcode
	}
	want := argCount[op]
	if len(fields) != 2+want {
		return Request{}, ErrArgCount
	}

	queueID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Request{}, errs.Wrap(ErrShortFrame, "invalid queue id")
	}

	args := make([]int64, want)
	for i := 0; i < want; i++ {
		v, err := strconv.ParseInt(fields[2+i], 10, 64)
		if err != nil {
			return Request{}, errs.Wrap(queue.ErrNotInteger, fields[2+i])
		}
		args[i] = v
	}

	req := Request{Op: op, QueueID: queueID, Args: args}
	if hasItemPayload(op) {
		items, err := readItems(r)
		if err != nil {
			return Request{}, err
		}
		req.Items = items
	}
	return req, nil
}

// WriteResponse encodes resp to w.
func WriteResponse(w io.Writer, resp Response) error {
	fields := []string{string(resp.Status)}
	for _, a := range resp.Args {
		fields = append(fields, strconv.FormatInt(a, 10))
	}
	if _, err := io.WriteString(w, strings.Join(fields, " ")+"\n"); err != nil {
		return err
	}

	if resp.Status == StatusError {
		_, err := io.WriteString(w, strconv.Itoa(len(resp.ErrMsg))+"\n"+resp.ErrMsg)
		return err
	}
	return writeItems(w, resp.Items)
}

// ReadResponse decodes one response frame from r.
func ReadResponse(r *bufio.Reader) (Response, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return Response{}, errs.Wrap(ErrShortFrame, err.Error())
	}
	fields := strings.Fields(line)
	if len(fields) < 1 || len(fields[0]) != 1 {
		return Response{}, errs.Wrap(ErrShortFrame, "missing status field")
	}
	status := Status(fields[0][0])
	if status != StatusOK && status != StatusAbsent && status != StatusError {
		return Response{}, errs.Wrap(ErrShortFrame, fmt.Sprintf("unrecognized status %q", fields[0]))
	}

	args := make([]int64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return Response{}, errs.Wrap(ErrShortFrame, "invalid response arg")
		}
		args = append(args, v)
	}
	resp := Response{Status: status, Args: args}

	if status == StatusError {
		n, err := readLengthLine(r)
		if err != nil {
			return Response{}, err
		}
		msg := make([]byte, n)
		if _, err := io.ReadFull(r, msg); err != nil {
			return Response{}, errs.Wrap(ErrShortFrame, err.Error())
		}
		resp.ErrMsg = string(msg)
		return resp, nil
	}

	items, err := readItems(r)
	if err != nil {
		return Response{}, err
	}
	resp.Items = items
	return resp, nil
}
