package structy_test

import (
	"fmt"

	"github.com/rawbytedev/structy"
	"github.com/rawbytedev/structy/pkg/fix16"
)

func ExamplePack() {
	buf := make([]byte, 19)
	res, err := structy.Pack("BbHhIif?", buf,
		uint8(0x7F), int8(-32), uint16(43690), int16(-23211),
		uint32(3132799674), int32(-1094795586), float32(3.145), true)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s %d % X\n", res.Status, res.Count, buf)
	// Output: OKAY 8 7F E0 AA AA A5 55 BA BA BA BA BE BE BE BE 40 49 47 AE 01
}

func ExampleUnpack() {
	var lo, hi fix16.Fix16
	_, err := structy.Unpack("ii", []byte{0xFF, 0xFE, 0xFD, 0x71, 0x00, 0x01, 0x02, 0x8F}, &lo, &hi)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(lo.Text(2), hi.Text(2))
	// Output: -1.01 1.01
}

func ExampleCalcSize() {
	_, err := structy.CalcSize("Hx")
	fmt.Println(err)
	// Output: unknown format code: 'x' at position 1
}
