package interp

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

func compileSource(t *testing.T, src string) *Program {
	t.Helper()
	m, err := syntax.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, err := Compile(m)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return prog
}

func TestBuildTables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want *Tables
	}{
		{
			name: "function, loop and branch",
			src: `def add(x, y):
    s = x + y
    t = s * 2
    return t
i = 0
total = 0
while i < 10:
    if i % 2 == 0:
        total = total + i
    else:
        pass
    i = i + 1
    continue
r = add(total, i)
`,
			want: &Tables{
				Next: map[int]int{
					1:  5,
					2:  3,
					3:  4,
					5:  6,
					6:  7,
					9:  12,
					11: 12,
					12: 13,
					13: 7,
					14: 14,
				},
				True:  map[int]int{7: 8, 8: 9},
				False: map[int]int{7: 14, 8: 11},
			},
		},
		{
			name: "break leaves the loop",
			src: `n = 0
while True:
    n = n + 1
    if n > 3:
        break
    else:
        pass
    continue
done = 1
`,
			want: &Tables{
				Next: map[int]int{
					1: 2,
					3: 4,
					5: 9,
					7: 8,
					8: 2,
					9: 9,
				},
				True:  map[int]int{2: 3, 4: 5},
				False: map[int]int{2: 9, 4: 7},
			},
		},
		{
			name: "nested loops",
			src: `i = 0
acc = 0
while i < 3:
    j = 0
    while j < 3:
        acc = acc + 1
        j = j + 1
        continue
    i = i + 1
    continue
r = acc
`,
			want: &Tables{
				Next: map[int]int{
					1:  2,
					2:  3,
					4:  5,
					6:  7,
					7:  8,
					8:  5,
					9:  10,
					10: 3,
					11: 11,
				},
				True:  map[int]int{3: 4, 5: 6},
				False: map[int]int{3: 11, 5: 9},
			},
		},
		{
			name: "return statements have no successor",
			src: `def sign(x):
    if x < 0:
        return 0 - 1
    else:
        return 1
s = sign(5)
`,
			want: &Tables{
				Next:  map[int]int{1: 6, 6: 6},
				True:  map[int]int{2: 3},
				False: map[int]int{2: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prog := compileSource(t, tt.src)
			got, err := BuildTables(prog)
			if err != nil {
				t.Fatalf("BuildTables: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tables mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
