package expansion

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ProgramSchema is bumped whenever the encoded layout changes.
const ProgramSchema uint16 = 1

const programMagic = "keel-expansion"

var errSchemaMismatch = errors.New("expansion: schema mismatch")

type programFile struct {
	Magic   string
	Schema  uint16
	Program *Program
}

// EncodeProgram writes p in the msgpack hand-off format.
func EncodeProgram(w io.Writer, p *Program) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&programFile{Magic: programMagic, Schema: ProgramSchema, Program: p}); err != nil {
		return fmt.Errorf("encode program: %w", err)
	}
	return nil
}

// DecodeProgram reads a program written by EncodeProgram.
func DecodeProgram(r io.Reader) (*Program, error) {
	var file programFile
	if err := msgpack.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if file.Magic != programMagic || file.Schema != ProgramSchema {
		return nil, fmt.Errorf("%w: got %q v%d, want %q v%d", errSchemaMismatch, file.Magic, file.Schema, programMagic, ProgramSchema)
	}
	if file.Program == nil {
		return &Program{}, nil
	}
	if err := file.Program.Validate(); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	return file.Program, nil
}

// IsSchemaMismatch reports whether err came from a file of another version.
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, errSchemaMismatch)
}

// Tagged nodes are encoded as [kind, span, payload].

func (t *Type) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(t.Kind)); err != nil {
		return err
	}
	if err := enc.Encode(t.Span); err != nil {
		return err
	}
	return enc.Encode(t.Data)
}

func (t *Type) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, err := decodeHeader(dec, &t.Span)
	if err != nil {
		return err
	}
	t.Kind = TypeKind(kind)
	switch t.Kind {
	case TypeUnit, TypeUnresolved:
		t.Data = nil
		return dec.Skip()
	case TypeMultiple:
		t.Data, err = decodeData[MultipleType](dec)
	case TypeApply:
		t.Data, err = decodeData[ApplyType](dec)
	case TypeRef:
		t.Data, err = decodeData[RefType](dec)
	case TypeFun:
		t.Data, err = decodeData[FunType](dec)
	default:
		return fmt.Errorf("decode type: unknown kind %d", kind)
	}
	return err
}

func (e *Expr) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(e.Kind)); err != nil {
		return err
	}
	if err := enc.Encode(e.Span); err != nil {
		return err
	}
	return enc.Encode(e.Data)
}

func (e *Expr) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, err := decodeHeader(dec, &e.Span)
	if err != nil {
		return err
	}
	e.Kind = ExprKind(kind)
	switch e.Kind {
	case ExprBreak, ExprContinue, ExprUnresolved:
		e.Data = nil
		return dec.Skip()
	case ExprValue:
		e.Data, err = decodeData[ValueData](dec)
	case ExprMove, ExprCopy:
		e.Data, err = decodeData[VarData](dec)
	case ExprName:
		e.Data, err = decodeData[NameData](dec)
	case ExprCall:
		e.Data, err = decodeData[CallData](dec)
	case ExprPack:
		e.Data, err = decodeData[PackData](dec)
	case ExprVector:
		e.Data, err = decodeData[VectorData](dec)
	case ExprIfElse:
		e.Data, err = decodeData[IfElseData](dec)
	case ExprWhile:
		e.Data, err = decodeData[WhileData](dec)
	case ExprLoop, ExprReturn, ExprAbort, ExprDereference:
		e.Data, err = decodeData[InnerData](dec)
	case ExprBlock:
		e.Data, err = decodeData[BlockData](dec)
	case ExprLambda:
		e.Data, err = decodeData[LambdaData](dec)
	case ExprQuant:
		e.Data, err = decodeData[QuantData](dec)
	case ExprAssign:
		e.Data, err = decodeData[AssignData](dec)
	case ExprFieldMutate:
		e.Data, err = decodeData[FieldMutateData](dec)
	case ExprMutate:
		e.Data, err = decodeData[MutateData](dec)
	case ExprUnary:
		e.Data, err = decodeData[UnaryData](dec)
	case ExprBinop:
		e.Data, err = decodeData[BinopData](dec)
	case ExprList:
		e.Data, err = decodeData[ListData](dec)
	case ExprUnit:
		e.Data, err = decodeData[UnitData](dec)
	case ExprBorrow:
		e.Data, err = decodeData[BorrowData](dec)
	case ExprDotted:
		e.Data, err = decodeData[DottedData](dec)
	case ExprCast, ExprAnnotate:
		e.Data, err = decodeData[CastData](dec)
	case ExprIndex:
		e.Data, err = decodeData[IndexData](dec)
	case ExprSpec:
		e.Data, err = decodeData[SpecData](dec)
	default:
		return fmt.Errorf("decode expr: unknown kind %d", kind)
	}
	return err
}

func decodeHeader(dec *msgpack.Decoder, span any) (uint8, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return 0, err
	}
	if n != 3 {
		return 0, fmt.Errorf("decode node: expected 3 elements, got %d", n)
	}
	kind, err := dec.DecodeUint8()
	if err != nil {
		return 0, err
	}
	if err := dec.Decode(span); err != nil {
		return 0, err
	}
	return kind, nil
}

func decodeData[T any](dec *msgpack.Decoder) (T, error) {
	var d T
	err := dec.Decode(&d)
	return d, err
}
