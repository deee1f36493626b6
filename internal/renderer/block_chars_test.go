package renderer

import "testing"

func TestClassifyCharBoxDrawing(t *testing.T) {
	cases := []rune{'─', '│', '┌', '┐', '└', '┘', '├', '┤', '┬', '┴', '┼'}
	for _, r := range cases {
		if got := ClassifyChar(r); got != BlockCharBoxDrawing {
			t.Errorf("ClassifyChar(%q) = %v, want BlockCharBoxDrawing", r, got)
		}
	}
}

func TestClassifyCharBlockElements(t *testing.T) {
	cases := []rune{'▀', '▄', '█', '▌', '▐', '░', '▒', '▓'}
	for _, r := range cases {
		if got := ClassifyChar(r); got != BlockCharBlockElement {
			t.Errorf("ClassifyChar(%q) = %v, want BlockCharBlockElement", r, got)
		}
	}
}

func TestClassifyCharGeometricShapes(t *testing.T) {
	cases := []rune{'■', '□', '▲', '▼', '●', '○'}
	for _, r := range cases {
		if got := ClassifyChar(r); got != BlockCharGeometricShape {
			t.Errorf("ClassifyChar(%q) = %v, want BlockCharGeometricShape", r, got)
		}
	}
}

func TestClassifyCharBraille(t *testing.T) {
	if got := ClassifyChar('⠿'); got != BlockCharBraille {
		t.Errorf("ClassifyChar('⠿') = %v, want BlockCharBraille", got)
	}
}

func TestClassifyCharPowerline(t *testing.T) {
	if got := ClassifyChar(''); got != BlockCharPowerline {
		t.Errorf("ClassifyChar powerline arrow = %v, want BlockCharPowerline", got)
	}
}

func TestClassifyCharMiscSymbolsAndDingbats(t *testing.T) {
	if got := ClassifyChar('☀'); got != BlockCharMiscSymbol {
		t.Errorf("ClassifyChar('☀') = %v, want BlockCharMiscSymbol", got)
	}
	if got := ClassifyChar('✂'); got != BlockCharDingbat {
		t.Errorf("ClassifyChar('✂') = %v, want BlockCharDingbat", got)
	}
}

func TestClassifyCharNoneForOrdinaryText(t *testing.T) {
	cases := []rune{'a', 'Z', '0', ' ', '漢'}
	for _, r := range cases {
		if got := ClassifyChar(r); got != BlockCharNone {
			t.Errorf("ClassifyChar(%q) = %v, want BlockCharNone", r, got)
		}
	}
}

func TestIsBlockChar(t *testing.T) {
	if !IsBlockChar('─') {
		t.Error("expected box-drawing char to be a block char")
	}
	if IsBlockChar('a') {
		t.Error("expected ordinary letter to not be a block char")
	}
}
