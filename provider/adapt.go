package provider

import "context"

// Func returns an always-available provider named name that runs fn.
func Func[I, O any](name string, fn func(ctx context.Context, input I) (O, error)) RequestResponse[I, O] {
	return &bound[I, O]{name: name, exec: fn}
}

// Adapt exposes inner, which speaks [BI, BO], as a provider of [I, O].
// mapIn runs before inner and mapOut after it; an error from any of the
// three ends the call. Availability and Close are delegated to inner.
func Adapt[I, O, BI, BO any](
	inner RequestResponse[BI, BO],
	name string,
	mapIn func(ctx context.Context, input I) (BI, error),
	mapOut func(ctx context.Context, output BO) (O, error),
) RequestResponse[I, O] {
	return &bound[I, O]{
		name: name,
		base: inner,
		exec: func(ctx context.Context, input I) (O, error) {
			var zero O
			in, err := mapIn(ctx, input)
			if err != nil {
				return zero, err
			}
			out, err := inner.Execute(ctx, in)
			if err != nil {
				return zero, err
			}
			return mapOut(ctx, out)
		},
	}
}

type bound[I, O any] struct {
	name string
	base Provider
	exec func(context.Context, I) (O, error)
}

func (b *bound[I, O]) Name() string { return b.name }

func (b *bound[I, O]) IsAvailable(ctx context.Context) bool {
	return b.base == nil || b.base.IsAvailable(ctx)
}

func (b *bound[I, O]) Close(ctx context.Context) error {
	if b.base == nil {
		return nil
	}
	return Close(ctx, b.base)
}

func (b *bound[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return b.exec(ctx, input)
}
