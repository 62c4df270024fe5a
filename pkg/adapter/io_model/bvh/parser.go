// 指示: miu200521358
package bvh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

const maxLineBytes = 16 * 1024 * 1024

type parseSection int

const (
	sectionStart parseSection = iota
	sectionHierarchy
	sectionMotionHeader
	sectionMotionData
)

// parser はBVHの行単位解析状態を表す。
type parser struct {
	bvh     *Bvh
	section parseSection
	stack   []*Joint
	pending *Joint
	line    int

	channelCount int
	frameTimeSet bool
	framesSet    bool
}

// Parse はBVHテキストを解析する。
func Parse(r io.Reader) (*Bvh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	p := &parser{bvh: &Bvh{}}
	for scanner.Scan() {
		p.line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := p.parseLine(fields); err != nil {
			return nil, fmt.Errorf("BVH解析に失敗しました(line=%d): %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("BVH読み取りに失敗しました: %w", err)
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.bvh, nil
}

// parseLine は現在のセクションに応じて1行を解釈する。
func (p *parser) parseLine(fields []string) error {
	switch p.section {
	case sectionStart:
		if !strings.EqualFold(fields[0], "HIERARCHY") {
			return fmt.Errorf("HIERARCHY で始まっていません: %s", fields[0])
		}
		p.section = sectionHierarchy
		return nil
	case sectionHierarchy:
		return p.parseHierarchy(fields)
	case sectionMotionHeader:
		return p.parseMotionHeader(fields)
	default:
		return p.parseFrame(fields)
	}
}

// parseHierarchy は階層定義の1行を解釈する。
func (p *parser) parseHierarchy(fields []string) error {
	for i := 0; i < len(fields); i++ {
		token := fields[i]
		switch strings.ToUpper(token) {
		case "ROOT", "JOINT":
			nameFields := fields[i+1:]
			opens := len(nameFields) > 0 && nameFields[len(nameFields)-1] == "{"
			if opens {
				nameFields = nameFields[:len(nameFields)-1]
			}
			if len(nameFields) == 0 {
				return fmt.Errorf("%s の名前がありません", token)
			}
			joint := &Joint{Name: strings.Join(nameFields, " ")}
			if err := p.declare(joint, strings.EqualFold(token, "ROOT")); err != nil {
				return err
			}
			if opens {
				return p.open()
			}
			return nil
		case "END":
			if i+1 >= len(fields) || !strings.EqualFold(fields[i+1], "Site") {
				return fmt.Errorf("End の後に Site がありません")
			}
			if len(p.stack) == 0 {
				return fmt.Errorf("End Site の親関節がありません")
			}
			parent := p.stack[len(p.stack)-1]
			if err := p.declare(&Joint{Name: parent.Name + "_End", EndSite: true}, false); err != nil {
				return err
			}
			i++
		case "{":
			if err := p.open(); err != nil {
				return err
			}
		case "}":
			if len(p.stack) == 0 {
				return fmt.Errorf("閉じ括弧が多すぎます")
			}
			p.stack = p.stack[:len(p.stack)-1]
		case "OFFSET":
			joint, err := p.current()
			if err != nil {
				return err
			}
			if i+3 >= len(fields) {
				return fmt.Errorf("OFFSET の値が不足しています: %s", joint.Name)
			}
			values, err := parseFloats(fields[i+1 : i+4])
			if err != nil {
				return err
			}
			joint.Offset = r3.Vec{X: values[0], Y: values[1], Z: values[2]}
			i += 3
		case "CHANNELS":
			joint, err := p.current()
			if err != nil {
				return err
			}
			if joint.EndSite {
				return fmt.Errorf("End Site にチャンネルは指定できません")
			}
			if i+1 >= len(fields) {
				return fmt.Errorf("CHANNELS の数がありません: %s", joint.Name)
			}
			count, err := strconv.Atoi(fields[i+1])
			if err != nil || count < 0 || i+1+count >= len(fields) {
				return fmt.Errorf("CHANNELS の指定が不正です: %s", joint.Name)
			}
			joint.Channels = make([]Channel, 0, count)
			for _, name := range fields[i+2 : i+2+count] {
				channel, err := ParseChannel(name)
				if err != nil {
					return err
				}
				joint.Channels = append(joint.Channels, channel)
			}
			p.channelCount += count
			i += 1 + count
		case "MOTION":
			if len(p.stack) > 0 || p.pending != nil {
				return fmt.Errorf("階層が閉じられる前に MOTION が現れました")
			}
			if p.bvh.Root == nil {
				return fmt.Errorf("ROOT が定義されていません")
			}
			p.section = sectionMotionHeader
			return nil
		default:
			return fmt.Errorf("未知のトークンです: %s", token)
		}
	}
	return nil
}

// declare は関節を親へ登録し、開き括弧待ちにする。
func (p *parser) declare(joint *Joint, root bool) error {
	if p.pending != nil {
		return fmt.Errorf("%s の開き括弧がありません", p.pending.Name)
	}
	if root {
		if p.bvh.Root != nil || len(p.stack) > 0 {
			return fmt.Errorf("ROOT が複数定義されています: %s", joint.Name)
		}
		p.bvh.Root = joint
	} else {
		if len(p.stack) == 0 {
			return fmt.Errorf("親のない関節です: %s", joint.Name)
		}
		parent := p.stack[len(p.stack)-1]
		if parent.EndSite {
			return fmt.Errorf("End Site の下に関節は定義できません: %s", joint.Name)
		}
		parent.Children = append(parent.Children, joint)
	}
	p.pending = joint
	return nil
}

// open は開き括弧で待機中の関節をスタックへ積む。
func (p *parser) open() error {
	if p.pending == nil {
		return fmt.Errorf("対応する関節のない開き括弧です")
	}
	p.stack = append(p.stack, p.pending)
	p.pending = nil
	return nil
}

// current は定義中の関節を返す。
func (p *parser) current() (*Joint, error) {
	if len(p.stack) == 0 {
		return nil, fmt.Errorf("関節の外で属性が指定されました")
	}
	return p.stack[len(p.stack)-1], nil
}

// parseMotionHeader は Frames と Frame Time を解釈する。
func (p *parser) parseMotionHeader(fields []string) error {
	switch {
	case strings.EqualFold(fields[0], "Frames:") && len(fields) == 2:
		frames, err := strconv.Atoi(fields[1])
		if err != nil || frames < 0 {
			return fmt.Errorf("Frames の値が不正です: %s", fields[1])
		}
		p.bvh.Frames = frames
		p.framesSet = true
	case strings.EqualFold(fields[0], "Frame") && len(fields) == 3 && strings.EqualFold(fields[1], "Time:"):
		frameTime, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || frameTime < 0 {
			return fmt.Errorf("Frame Time の値が不正です: %s", fields[2])
		}
		p.bvh.FrameTime = frameTime
		p.frameTimeSet = true
	default:
		return fmt.Errorf("MOTION ヘッダが不正です: %s", strings.Join(fields, " "))
	}
	if p.framesSet && p.frameTimeSet {
		p.section = sectionMotionData
		p.bvh.Motion = make([][]float64, 0, p.bvh.Frames)
	}
	return nil
}

// parseFrame はフレーム1行分のチャンネル値を解釈する。
func (p *parser) parseFrame(fields []string) error {
	if len(p.bvh.Motion) >= p.bvh.Frames {
		return fmt.Errorf("Frames(%d)を超えるフレームがあります", p.bvh.Frames)
	}
	if len(fields) != p.channelCount {
		return fmt.Errorf("フレームの値数が一致しません: got=%d want=%d", len(fields), p.channelCount)
	}
	values, err := parseFloats(fields)
	if err != nil {
		return err
	}
	p.bvh.Motion = append(p.bvh.Motion, values)
	return nil
}

// finish は解析終了時の整合を確認する。
func (p *parser) finish() error {
	switch p.section {
	case sectionStart:
		return fmt.Errorf("BVHが空です")
	case sectionHierarchy:
		if p.bvh.Root == nil {
			return fmt.Errorf("ROOT が定義されていません")
		}
		if len(p.stack) > 0 || p.pending != nil {
			return fmt.Errorf("階層が閉じられていません")
		}
	case sectionMotionHeader:
		return fmt.Errorf("MOTION ヘッダが不完全です")
	default:
		if len(p.bvh.Motion) != p.bvh.Frames {
			return fmt.Errorf("フレーム数が一致しません: got=%d want=%d", len(p.bvh.Motion), p.bvh.Frames)
		}
	}
	return nil
}

// parseFloats は文字列列を数値に変換する。
func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("数値ではありません: %s", field)
		}
		values[i] = value
	}
	return values, nil
}
